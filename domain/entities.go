package domain

import "time"

// Role is the closed set of identities the platform recognizes.
// A session always carries exactly one role; there is no role switch.
type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RoleHospital Role = "hospital"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleHospital:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a raw string into a Role, rejecting anything
// outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Roles returns every role the platform recognizes.
func Roles() []Role {
	return []Role{RolePatient, RoleDoctor, RoleHospital}
}

// Session is the client-side record of the currently logged-in
// identity. Absence of a Session means unauthenticated.
type Session struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone,omitempty"`
	Role    Role           `json:"role"`
	Profile map[string]any `json:"profile,omitempty"`
	Token   string         `json:"token,omitempty"`
}

// Validate checks the structural invariants a Session must hold before
// it is installed or persisted.
func (s *Session) Validate() error {
	if s == nil || s.ID == "" {
		return ErrInvalidSession
	}
	if !s.Role.Valid() {
		return ErrUnknownRole
	}
	return nil
}

// Clone returns a deep copy so callers can never mutate the provider's
// in-memory record through a snapshot.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Profile != nil {
		cp.Profile = make(map[string]any, len(s.Profile))
		for k, v := range s.Profile {
			cp.Profile[k] = v
		}
	}
	return &cp
}

// SessionUpdate carries a shallow field merge for an active session.
// Nil pointers leave the current value untouched; Profile keys are
// merged into the existing profile. Role is deliberately absent.
type SessionUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Token   *string
	Profile map[string]any
}

// User is a server-side account (patient, doctor or hospital admin).
type User struct {
	ID           string
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	Profile      map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthResult is what a successful login or signup hands back to the
// caller: a ready-to-install Session plus the bearer token.
type AuthResult struct {
	Session      *Session
	Token        string
	ExistingUser bool
	// TempPassword is only set by emergency quick-signup; it is
	// delivered over SMS and echoed in the demo response.
	TempPassword string
}

// PatientSignup is the full patient registration payload with the
// clinical profile fields the intake forms collect.
type PatientSignup struct {
	Name               string
	Email              string
	Phone              string
	Password           string
	DateOfBirth        string
	Gender             string
	BloodGroup         string
	EmergencyContact   map[string]any
	Allergies          []string
	ChronicConditions  []string
	CurrentMedications []string
	Address            map[string]any
}

// QuickSignup is the minimal emergency-intake registration.
type QuickSignup struct {
	Phone     string
	Name      string
	Emergency bool
}

// ProfileUpdate is the server-side counterpart of SessionUpdate.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Profile map[string]any
}

// TokenClaims are the verified contents of a bearer token.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
	TokenID   string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
