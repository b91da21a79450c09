// Package session implements the process-wide session-exclusivity registry.
package session

import "sync"

// Registry maps user id to a logged-in flag under one mutex, enforcing at
// most one live authenticated connection per user. Construct exactly one
// per process and pass it by handle into every connection handler.
type Registry struct {
	mu     sync.Mutex
	active map[int]bool
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[int]bool)}
}

// TryLogin atomically checks and sets the flag for userID. It returns false
// without mutating state when a session already exists.
func (r *Registry) TryLogin(userID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[userID] {
		return false
	}
	r.active[userID] = true
	return true
}

// Logout clears the flag. Safe to call for ids that are not logged in.
func (r *Registry) Logout(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, userID)
}

// Active reports whether userID currently holds a session.
func (r *Registry) Active(userID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[userID]
}
