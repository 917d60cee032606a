package httpserver

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"

	"review_replier/internal/app"
)

const sessionCookie = "sid"

// Registry maps session cookies to in-memory sessions. Nothing is persisted;
// a process restart clears all sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*app.Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*app.Session)}
}

// Session returns the caller's session, creating one (and setting the cookie)
// on first contact.
func (reg *Registry) Session(w http.ResponseWriter, r *http.Request) *app.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		reg.mu.Lock()
		s, ok := reg.sessions[c.Value]
		reg.mu.Unlock()
		if ok {
			return s
		}
	}

	id := newSessionID()
	s := app.NewSession()
	reg.mu.Lock()
	reg.sessions[id] = s
	reg.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

func newSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	return hex.EncodeToString(b[:])
}
