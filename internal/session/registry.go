package session

import (
	"sync"
	"time"
)

// DefaultIdleTTL is how long an untouched session survives
const DefaultIdleTTL = time.Hour

// Registry tracks the live sessions of the UI server. Sessions idle for longer
// than the TTL are evicted; a zero TTL keeps them until End.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create starts and registers a new session, sweeping idle ones first
func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	s := New()
	s.touch(now)
	r.sessions[s.ID()] = s
	return s
}

// Get returns the live session with the given id and marks it as used
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id, r.now())
}

// GetOrCreate returns the session for id, starting a new one when it is
// unknown or expired
func (r *Registry) GetOrCreate(id string) *Session {
	if s, ok := r.Get(id); ok {
		return s
	}
	return r.Create()
}

// End destroys a session
func (r *Registry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

// Sweep evicts idle sessions and returns how many were removed
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

// Len returns the number of registered sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) getLocked(id string, now time.Time) (*Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.expired(s, now) {
		r.removeLocked(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			r.removeLocked(id)
			removed++
		}
	}
	return removed
}

func (r *Registry) removeLocked(id string) {
	if s, ok := r.sessions[id]; ok {
		s.Reset()
		delete(r.sessions, id)
	}
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.idleTTL > 0 && now.Sub(s.LastAccess()) > r.idleTTL
}
