package app

import "sync"

// Registry owns the set of live game sessions, keyed by game id. A removed
// id is dead until a fresh create reuses it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for gameID, creating it on first use.
// Creating twice is a no-op.
func (r *Registry) GetOrCreate(gameID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[gameID]; ok {
		return session
	}
	session := newSession(gameID)
	r.sessions[gameID] = session
	return session
}

// Get returns the session for gameID, never creating one as a side effect.
func (r *Registry) Get(gameID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[gameID]
	return session, ok
}

// Remove deletes the session and reports whether this call removed it;
// no-op when already absent.
func (r *Registry) Remove(gameID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[gameID]; !ok {
		return false
	}
	delete(r.sessions, gameID)
	return true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
