package hackrf

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goji.io"
)

func wrapperMux(h *HackRf) *goji.Mux {
	w := NewHTTPWrapper(h)
	mux := goji.NewMux()
	w.RT().Bind(mux)
	return mux
}

func TestHTTPMode(t *testing.T) {
	m := newMockTransport()
	mux := wrapperMux(New(m))
	req := httptest.NewRequest(http.MethodGet, "/mode", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Idle") {
		t.Errorf("body %q does not name the Idle mode", rec.Body.String())
	}
}

func TestHTTPSetFreq(t *testing.T) {
	m := newMockTransport()
	mux := wrapperMux(New(m))
	req := httptest.NewRequest(http.MethodPost, "/frequency", strings.NewReader(`{"f64": 915000000}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if len(m.writes) != 1 || m.writes[0].req != uint8(reqSetFreq) {
		t.Errorf("writes = %+v", m.writes)
	}
}

func TestHTTPGainRejectedIs400(t *testing.T) {
	m := newMockTransport()
	mux := wrapperMux(New(m))
	req := httptest.NewRequest(http.MethodPost, "/lna-gain", strings.NewReader(`{"int": 99}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
	if m.controlCount() != 0 {
		t.Error("rejected gain still reached the transport")
	}
}

func TestHTTPStartStopRx(t *testing.T) {
	m := newMockTransport()
	mux := wrapperMux(New(m))
	req := httptest.NewRequest(http.MethodPost, "/rx/start", strings.NewReader(`{"vgaDB": 16, "frequencyHz": 915000000}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status %d, body %s", rec.Code, rec.Body.String())
	}

	// starting again while busy is a conflict
	req = httptest.NewRequest(http.MethodPost, "/rx/start", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("second start status %d, want 409", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/rx/stop", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("stop status %d", rec.Code)
	}
}

func TestHTTPCapture(t *testing.T) {
	m := newMockTransport()
	h := New(m)
	if err := h.StartRx(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	w := NewHTTPWrapper(h)
	mux := goji.NewMux()
	w.RT().Bind(mux)

	req := httptest.NewRequest(http.MethodGet, "/rx/capture?bytes=100", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	// 100 rounds up to one whole packet
	if rec.Body.Len() != PacketSize {
		t.Errorf("captured %d bytes, want %d", rec.Body.Len(), PacketSize)
	}
}
