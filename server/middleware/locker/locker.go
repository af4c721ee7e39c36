// Package locker provides an HTTP middleware which bounces requests with
// 423 (Locked) while an operator holds the lock, e.g. during a transmit
// session that must not be reconfigured mid-flight.
package locker

import (
	"encoding/json"
	"go/types"
	"net/http"
	"strings"

	"github.com/openradio/sdrlab/server"
	"goji.io/pat"
)

// Inject adds GET/POST /lock routes to an HTTPer so clients can inspect and
// manipulate the lock.
func Inject(other server.HTTPer, l *Locker) {
	rt := other.RT()
	rt[pat.Get("/lock")] = l.HTTPGet
	rt[pat.Post("/lock")] = l.HTTPSet
}

// Locker behaves like a sync.Mutex without the blocking and holds a list of
// route fragments the lock does not apply to.
type Locker struct {
	isLocked bool

	// DoNotProtect is a list of path fragments the lock is never applied to
	DoNotProtect []string
}

// New returns a Locker with DoNotProtect prepopulated with "lock", so the
// lock can always be released.
func New() *Locker {
	return &Locker{DoNotProtect: []string{"lock"}}
}

// Lock the locker
func (l *Locker) Lock() {
	l.isLocked = true
}

// Unlock the locker
func (l *Locker) Unlock() {
	l.isLocked = false
}

// Locked returns true if the locker is locked
func (l *Locker) Locked() bool {
	return l.isLocked
}

// Check is the middleware; locked requests to protected paths get
// http.StatusLocked, everything else flows through.
func (l *Locker) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Locked() {
			protected := true
			url := r.URL.Path
			for _, str := range l.DoNotProtect {
				if strings.Contains(url, str) {
					protected = false
				}
			}
			if protected {
				w.WriteHeader(http.StatusLocked)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPSet locks or unlocks based on json:bool in the request body
func (l *Locker) HTTPSet(w http.ResponseWriter, r *http.Request) {
	b := server.BoolT{}
	err := json.NewDecoder(r.Body).Decode(&b)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if b.Bool {
		l.Lock()
	} else {
		l.Unlock()
	}
	w.WriteHeader(http.StatusOK)
}

// HTTPGet returns Locked() over HTTP as JSON
func (l *Locker) HTTPGet(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.Bool, Bool: l.Locked()}
	hp.EncodeAndRespond(w, r)
}
