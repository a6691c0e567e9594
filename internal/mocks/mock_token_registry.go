package mocks

import (
	"context"
	"sync"

	"github.com/you/clinicgate/domain"
)

// MockTokenRegistry implements domain.TokenRegistry for testing. By
// default it behaves like a working in-memory registry.
type MockTokenRegistry struct {
	PutFunc    func(ctx context.Context, tokenID, userID string) error
	LookupFunc func(ctx context.Context, tokenID string) (string, error)
	RevokeFunc func(ctx context.Context, tokenID string) error

	mu      sync.Mutex
	entries map[string]string
}

// NewMockTokenRegistry creates a new MockTokenRegistry
func NewMockTokenRegistry() *MockTokenRegistry {
	return &MockTokenRegistry{entries: make(map[string]string)}
}

// Put registers a token
func (m *MockTokenRegistry) Put(ctx context.Context, tokenID, userID string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, tokenID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[tokenID] = userID
	return nil
}

// Lookup resolves a token to its user
func (m *MockTokenRegistry) Lookup(ctx context.Context, tokenID string) (string, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.entries[tokenID]
	if !ok {
		return "", domain.ErrTokenRevoked
	}
	return userID, nil
}

// Revoke removes a token
func (m *MockTokenRegistry) Revoke(ctx context.Context, tokenID string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, tokenID)
	return nil
}
