package mocks

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/you/clinicgate/domain"
)

// MockTokenService implements domain.TokenService for testing. Default
// tokens are self-describing strings, not real JWTs.
type MockTokenService struct {
	GenerateFunc func(userID string, role domain.Role) (string, *domain.TokenClaims, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)

	counter atomic.Int64
}

// NewMockTokenService creates a new MockTokenService
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Generate issues a fake token
func (m *MockTokenService) Generate(userID string, role domain.Role) (string, *domain.TokenClaims, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(userID, role)
	}
	jti := fmt.Sprintf("jti-%d", m.counter.Add(1))
	now := time.Now()
	claims := &domain.TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenID:   jti,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}
	token := fmt.Sprintf("tok|%s|%s|%s", userID, role, jti)
	return token, claims, nil
}

// Validate parses a fake token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	parts := strings.Split(token, "|")
	if len(parts) != 4 || parts[0] != "tok" {
		return nil, domain.ErrTokenInvalid
	}
	role, err := domain.ParseRole(parts[2])
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}
	now := time.Now()
	return &domain.TokenClaims{
		UserID:    parts[1],
		Role:      role,
		TokenID:   parts[3],
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}, nil
}
