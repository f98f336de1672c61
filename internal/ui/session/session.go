// Package session keys per-browser UI state off a session cookie. The cookie
// carries only an opaque id; the actual explorer and viewer state lives
// server-side and expires with the process.
package session

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/dbforge-labs/dbforge/internal/explorer"
	"github.com/dbforge-labs/dbforge/internal/viewer"
)

const cookieName = "dbforge_session"

// State is the UI state owned by one browser session.
type State struct {
	Explorer *explorer.State
	Viewer   *viewer.Viewer
}

// Manager hands out per-session state, creating it on first sight.
type Manager struct {
	cookies   sessions.Store
	newViewer func() *viewer.Viewer

	mu     sync.Mutex
	states map[string]*State
}

// NewCookieStore builds the cookie store the manager rides on.
func NewCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30) // 30 days
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// NewManager creates a Manager. newViewer constructs the viewer for a fresh
// session so the caller controls its hub and latency wiring.
func NewManager(cookies sessions.Store, newViewer func() *viewer.Viewer) *Manager {
	return &Manager{
		cookies:   cookies,
		newViewer: newViewer,
		states:    make(map[string]*State),
	}
}

// State returns the caller's session state, minting a session id cookie when
// none is present yet.
func (m *Manager) State(w http.ResponseWriter, r *http.Request) *State {
	sess, _ := m.cookies.Get(r, cookieName)
	sid, ok := sess.Values["sid"].(string)
	if !ok || sid == "" {
		sid = uuid.New().String()
		sess.Values["sid"] = sid
		_ = sess.Save(r, w)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[sid]
	if !ok {
		st = &State{
			Explorer: explorer.NewState(),
			Viewer:   m.newViewer(),
		}
		m.states[sid] = st
	}
	return st
}
