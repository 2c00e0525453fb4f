// Package identity exposes the current user id and change notifications.
// Authentication itself happens outside this system; the rest of the code
// only depends on Provider.
package identity

import "sync"

// Provider reports the owning identity every read and write is scoped to.
// An empty id means signed out.
type Provider interface {
	// CurrentUserID returns the active user id, or "" when signed out.
	CurrentUserID() string

	// Subscribe registers fn to be called synchronously whenever the
	// identity changes. fn receives the new user id ("" on sign-out).
	Subscribe(fn func(userID string))
}

// Manager is the concrete Provider backed by explicit SignIn/SignOut calls.
// Safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	userID string
	subs   []func(string)
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) CurrentUserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

func (m *Manager) Subscribe(fn func(userID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SignIn sets the active identity and notifies subscribers. Setting the same
// id twice is a no-op.
func (m *Manager) SignIn(userID string) {
	m.set(userID)
}

// SignOut clears the active identity and notifies subscribers.
func (m *Manager) SignOut() {
	m.set("")
}

func (m *Manager) set(userID string) {
	m.mu.Lock()
	if m.userID == userID {
		m.mu.Unlock()
		return
	}
	m.userID = userID
	subs := make([]func(string), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	// Callbacks run outside the lock so they may call back into the manager.
	for _, fn := range subs {
		fn(userID)
	}
}
