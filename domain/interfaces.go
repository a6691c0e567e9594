package domain

import "context"

// SessionStore persists the single client session record across
// restarts. Load reports an absent record as (nil, nil); a corrupted or
// role-invalid record is purged and likewise reported absent, never
// surfaced as an error to the caller.
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}

// UserRepository defines account data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	Count(ctx context.Context) (int64, error)
}

// TokenRegistry tracks the bearer tokens the service has issued, so
// logout can revoke them before their expiry.
type TokenRegistry interface {
	Put(ctx context.Context, tokenID, userID string) error
	Lookup(ctx context.Context, tokenID string) (string, error)
	Revoke(ctx context.Context, tokenID string) error
}

// AuthService defines the authentication business logic.
type AuthService interface {
	Login(ctx context.Context, email, password string, role Role) (*AuthResult, error)
	Signup(ctx context.Context, req PatientSignup) (*AuthResult, error)
	QuickSignup(ctx context.Context, req QuickSignup) (*AuthResult, error)
	UpdateProfile(ctx context.Context, userID string, updates ProfileUpdate) (*Session, error)
	Logout(ctx context.Context, token string) error
	UserFromToken(ctx context.Context, token string) (*User, error)
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines bearer token operations.
type TokenService interface {
	Generate(userID string, role Role) (token string, claims *TokenClaims, err error)
	Validate(token string) (*TokenClaims, error)
}

// NotificationService delivers out-of-band messages to users.
type NotificationService interface {
	SendSMS(to, message string) error
}

// PolicyService defines authorization policy operations for the
// hospital-admin policy surface.
type PolicyService interface {
	AddPolicy(role Role, resource, action string) error
	RemovePolicy(role Role, resource, action string) error
	CheckPermission(role Role, resource, action string) (bool, error)
	Policies() ([][]string, error)
}

// CasbinEnforcer is the subset of the Casbin enforcer the policy
// service depends on.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
