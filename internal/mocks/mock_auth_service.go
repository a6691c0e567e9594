package mocks

import (
	"context"

	"github.com/you/clinicgate/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, email, password string, role domain.Role) (*domain.AuthResult, error)
	SignupFunc        func(ctx context.Context, req domain.PatientSignup) (*domain.AuthResult, error)
	QuickSignupFunc   func(ctx context.Context, req domain.QuickSignup) (*domain.AuthResult, error)
	UpdateProfileFunc func(ctx context.Context, userID string, updates domain.ProfileUpdate) (*domain.Session, error)
	LogoutFunc        func(ctx context.Context, token string) error
	UserFromTokenFunc func(ctx context.Context, token string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string, role domain.Role) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, role)
	}
	return nil, domain.ErrInvalidCredentials
}

// Signup registers a new patient
func (m *MockAuthService) Signup(ctx context.Context, req domain.PatientSignup) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return nil, domain.ErrEmailTaken
}

// QuickSignup registers an emergency intake account
func (m *MockAuthService) QuickSignup(ctx context.Context, req domain.QuickSignup) (*domain.AuthResult, error) {
	if m.QuickSignupFunc != nil {
		return m.QuickSignupFunc(ctx, req)
	}
	return nil, domain.ErrUserNotFound
}

// UpdateProfile merges profile fields
func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, updates domain.ProfileUpdate) (*domain.Session, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, updates)
	}
	return nil, domain.ErrUserNotFound
}

// Logout revokes a token
func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

// UserFromToken resolves a bearer token to its account
func (m *MockAuthService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	if m.UserFromTokenFunc != nil {
		return m.UserFromTokenFunc(ctx, token)
	}
	return nil, domain.ErrTokenInvalid
}
