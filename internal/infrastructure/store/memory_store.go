package store

import (
	"context"
	"sync"

	"github.com/you/clinicgate/domain"
)

// MemoryStore implements domain.SessionStore in process memory. It is
// meant for tests and ephemeral sessions.
type MemoryStore struct {
	mu   sync.Mutex
	sess *domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements domain.SessionStore.
func (s *MemoryStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Clone(), nil
}

// Save implements domain.SessionStore.
func (s *MemoryStore) Save(_ context.Context, sess *domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess.Clone()
	return nil
}

// Clear implements domain.SessionStore.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}
