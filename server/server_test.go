package server_test

import (
	"go/types"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goji.io"
	"goji.io/pat"

	"github.com/openradio/sdrlab/server"
)

func TestHumanPayloadEncodings(t *testing.T) {
	cases := []struct {
		hp   server.HumanPayload
		want string
	}{
		{server.HumanPayload{T: types.Bool, Bool: true}, `{"bool":true}`},
		{server.HumanPayload{T: types.Int, Int: 42}, `{"int":42}`},
		{server.HumanPayload{T: types.Float64, Float: 1.5}, `{"f64":1.5}`},
		{server.HumanPayload{T: types.String, String: "idle"}, `{"str":"idle"}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.hp.EncodeAndRespond(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		body := strings.TrimSpace(rec.Body.String())
		if body != tc.want {
			t.Errorf("payload %+v encoded to %s, want %s", tc.hp, body, tc.want)
		}
	}
}

type fakeHTTPer struct {
	rt server.RouteTable
}

func (f fakeHTTPer) RT() server.RouteTable { return f.rt }

func TestBuildMuxBindsAndListsEndpoints(t *testing.T) {
	rt := server.RouteTable{}
	rt[pat.Get("/ping")] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	mux := server.BuildMux([]server.HTTPer{fakeHTTPer{rt: rt}}, []string{"bench/radio"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bench/radio/ping", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("bound route returned %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/endpoints", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("endpoints returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/bench/radio/") {
		t.Errorf("endpoints body %q missing stem", rec.Body.String())
	}
}

func TestSubMuxStripsPrefix(t *testing.T) {
	// goji submuxes see the path relative to the mount point; a route
	// table bound under a stem must not include the stem itself
	rt := server.RouteTable{}
	rt[pat.Get("/mode")] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	sub := goji.SubMux()
	rt.Bind(sub)
	root := goji.NewMux()
	root.Handle(pat.New("/radio/*"), sub)
	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/radio/mode", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("submux route returned %d", rec.Code)
	}
}
