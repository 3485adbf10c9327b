package selection

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an untouched session stays retrievable.
const DefaultSessionTTL = 30 * time.Minute

// Store holds live sessions keyed by opaque ID. Each end-user conversation
// gets its own session, so concurrent conversations never share state.
// Expired sessions are purged lazily when the store is touched.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store with the given TTL. Zero means
// DefaultSessionTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put registers a session.
func (s *Store) Put(session *Session) {
	s.mu.Lock()
	s.purgeLocked()
	s.sessions[session.ID] = session
	s.mu.Unlock()
}

// Get returns the live session for id, or ErrUnknownSession.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.now().Sub(session.CreatedAt) > s.ttl {
		return nil, ErrUnknownSession
	}
	return session, nil
}

// Drop removes a session once its workflow is finished with it.
func (s *Store) Drop(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) purgeLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
