// Package server contains the HTTP plumbing shared by device wrappers:
// route tables keyed by goji patterns, and a payload union type for
// responding with basic values as JSON.
package server

import (
	"encoding/json"
	"fmt"
	"go/types"
	"log"
	"net/http"
	"strings"

	"goji.io"
	"goji.io/pat"
)

// RouteTable maps goji patterns to the handlers that serve them.
type RouteTable map[goji.Pattern]http.HandlerFunc

// Bind attaches every route in the table to a mux.
func (rt RouteTable) Bind(mux *goji.Mux) {
	for ptrn, handler := range rt {
		mux.HandleFunc(ptrn, handler)
	}
}

// Endpoints lists the patterns in the table.
func (rt RouteTable) Endpoints() []string {
	out := make([]string, 0, len(rt))
	for ptrn := range rt {
		out = append(out, fmt.Sprint(ptrn))
	}
	return out
}

// HTTPer is a device wrapper exposing its functionality as a RouteTable.
type HTTPer interface {
	RT() RouteTable
}

// BuildMux assembles a root mux from HTTPers and the URL stems to mount
// them on.  The root additionally serves GET /endpoints, a JSON map of stem
// to route list.
func BuildMux(httpers []HTTPer, stems []string) *goji.Mux {
	root := goji.NewMux()
	supergraph := map[string][]string{}
	for idx := 0; idx < len(httpers); idx++ {
		stem := stems[idx]
		httper := httpers[idx]
		if !strings.HasPrefix(stem, "/") {
			stem = "/" + stem
		}
		if !strings.HasSuffix(stem, "/") {
			stem = stem + "/"
		}
		supergraph[stem] = httper.RT().Endpoints()
		mux := goji.SubMux()
		root.Handle(pat.New(stem+"*"), mux)
		httper.RT().Bind(mux)
	}
	root.HandleFunc(pat.Get("/endpoints"), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(supergraph)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return root
}

// HumanPayload is a union of the basic types a device wrapper responds
// with.  T tags which field is live.
type HumanPayload struct {
	// T is the type of the payload
	T types.BasicKind

	// Bool holds a bool, T == types.Bool
	Bool bool

	// Int holds an int, T == types.Int
	Int int

	// Uint holds an unsigned int, T == types.Uint64
	Uint uint64

	// Float holds a float, T == types.Float64
	Float float64

	// String holds a string, T == types.String
	String string
}

// EncodeAndRespond writes the payload to w as JSON with the conventional
// single-key encoding, e.g. {"f64": 915000000}.
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	var obj interface{}
	switch hp.T {
	case types.Bool:
		obj = BoolT{Bool: hp.Bool}
	case types.Int:
		obj = IntT{Int: hp.Int}
	case types.Uint64:
		obj = UintT{Uint: hp.Uint}
	case types.Float64:
		obj = FloatT{F64: hp.Float}
	case types.String:
		obj = StrT{Str: hp.String}
	default:
		http.Error(w, fmt.Sprintf("payload type %v unknown to encoder", hp.T), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(obj)
	if err != nil {
		fstr := fmt.Sprintf("error encoding payload to json %q", err)
		log.Println(fstr)
		http.Error(w, fstr, http.StatusInternalServerError)
	}
}

// BoolT is a struct with a single Bool field
type BoolT struct {
	Bool bool `json:"bool"`
}

// IntT is a struct with a single Int field
type IntT struct {
	Int int `json:"int"`
}

// UintT is a struct with a single Uint field
type UintT struct {
	Uint uint64 `json:"uint"`
}

// FloatT is a struct with a single F64 field
type FloatT struct {
	F64 float64 `json:"f64"`
}

// StrT is a struct with a single Str field
type StrT struct {
	Str string `json:"str"`
}
