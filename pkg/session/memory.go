package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/skinsuite/pkg/errors"
)

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. A missing or expired session is a
	// SESSION_NOT_FOUND error.
	Get(ctx context.Context, id string) (Session, error)

	// Set stores a session.
	Set(ctx context.Context, s Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewMemoryStore creates a store whose Get extends a session's lifetime by ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{sessions: map[string]Session{}, ttl: ttl}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if sess.Info().IsExpired() {
		delete(s.sessions, id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s expired", id)
	}
	sess.Touch(s.ttl)
	return sess, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Info().ID] = sess
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.Info().IsExpired() {
			delete(s.sessions, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ Store = (*MemoryStore)(nil)
