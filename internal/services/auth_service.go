package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	tokens      domain.TokenRegistry
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	notifier    domain.NotificationService
	audit       domain.AuditLogger
	log         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	tokens domain.TokenRegistry,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	notifier domain.NotificationService,
	audit domain.AuditLogger,
	log *zap.Logger,
) domain.AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		tokens:      tokens,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		notifier:    notifier,
		audit:       audit,
		log:         log,
	}
}

// Login implements domain.AuthService. The role is part of the
// credential triple: an existing account logging in under the wrong
// role is indistinguishable from bad credentials.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string, role domain.Role) (*domain.AuthResult, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.auditEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, "").WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}
	if user.Role != role {
		s.auditEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.auditEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.auditEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithRole(user.Role))
	return result, nil
}

// Signup implements domain.AuthService
func (s *AuthServiceImpl) Signup(ctx context.Context, req domain.PatientSignup) (*domain.AuthResult, error) {
	if req.Email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
			return nil, domain.ErrEmailTaken
		}
	}
	if _, err := s.userRepo.FindByPhone(ctx, req.Phone); err == nil {
		return nil, domain.ErrPhoneTaken
	}

	hash, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := req.Email
	if email == "" {
		// Phone-only registrations get a placeholder address.
		email = req.Phone + "@temp.ehr"
	}

	now := time.Now()
	user := &domain.User{
		ID:           "patient-" + shortID(),
		Email:        email,
		Phone:        req.Phone,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         domain.RolePatient,
		IsActive:     true,
		Profile: map[string]any{
			"date_of_birth":       req.DateOfBirth,
			"gender":              req.Gender,
			"blood_group":         req.BloodGroup,
			"emergency_contact":   req.EmergencyContact,
			"allergies":           orEmpty(req.Allergies),
			"chronic_conditions":  orEmpty(req.ChronicConditions),
			"current_medications": orEmpty(req.CurrentMedications),
			"address":             req.Address,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Auto-login after registration.
	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.auditEvent(ctx, domain.NewAuditEvent(domain.UserSignupEvent, user.ID).WithRole(user.Role))
	return result, nil
}

// QuickSignup implements domain.AuthService. A known phone number gets
// a fresh token for the existing account; anything else becomes a
// minimal patient record with a generated temp password sent over SMS.
func (s *AuthServiceImpl) QuickSignup(ctx context.Context, req domain.QuickSignup) (*domain.AuthResult, error) {
	if existing, err := s.userRepo.FindByPhone(ctx, req.Phone); err == nil {
		result, err := s.issueSession(ctx, existing)
		if err != nil {
			return nil, err
		}
		result.ExistingUser = true
		return result, nil
	}

	name := req.Name
	if name == "" {
		name = "Emergency Patient"
	}
	tempPassword := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hash, err := s.passwordSvc.Hash(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           "emergency-" + shortID(),
		Email:        req.Phone + "@emergency.ehr",
		Phone:        req.Phone,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RolePatient,
		IsActive:     true,
		Profile: map[string]any{
			"is_emergency": req.Emergency,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.notifier.SendSMS(req.Phone, "Your temporary password: "+tempPassword); err != nil {
		s.log.Warn("failed to deliver temp password sms", zap.Error(err))
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	result.TempPassword = tempPassword
	s.auditEvent(ctx, domain.NewAuditEvent(domain.UserQuickSignupEvent, user.ID).WithRole(user.Role))
	return result, nil
}

// UpdateProfile implements domain.AuthService
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID string, updates domain.ProfileUpdate) (*domain.Session, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		user.Name = *updates.Name
	}
	if updates.Phone != nil {
		user.Phone = *updates.Phone
	}
	if len(updates.Profile) > 0 {
		if user.Profile == nil {
			user.Profile = make(map[string]any, len(updates.Profile))
		}
		for k, v := range updates.Profile {
			user.Profile[k] = v
		}
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.auditEvent(ctx, domain.NewAuditEvent(domain.ProfileUpdateEvent, user.ID).WithRole(user.Role))
	return sessionFromUser(user, ""), nil
}

// Logout implements domain.AuthService. Unknown or already-revoked
// tokens are a no-op, matching the idempotent logout contract.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenSvc.Validate(token)
	if err != nil {
		return nil
	}
	if err := s.tokens.Revoke(ctx, claims.TokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.auditEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, claims.UserID).WithRole(claims.Role))
	return nil
}

// UserFromToken implements domain.AuthService
func (s *AuthServiceImpl) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenSvc.Validate(token)
	if err != nil {
		return nil, err
	}
	userID, err := s.tokens.Lookup(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}
	return s.userRepo.FindByID(ctx, claims.UserID)
}

// issueSession generates a bearer token, registers it and builds the
// session payload the client installs.
func (s *AuthServiceImpl) issueSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	token, claims, err := s.tokenSvc.Generate(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.tokens.Put(ctx, claims.TokenID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to register token: %w", err)
	}
	return &domain.AuthResult{
		Session: sessionFromUser(user, token),
		Token:   token,
	}, nil
}

func (s *AuthServiceImpl) auditEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, event)
	}
}

func sessionFromUser(user *domain.User, token string) *domain.Session {
	var profile map[string]any
	if len(user.Profile) > 0 {
		profile = make(map[string]any, len(user.Profile))
		for k, v := range user.Profile {
			profile[k] = v
		}
	}
	return &domain.Session{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Role:    user.Role,
		Profile: profile,
		Token:   token,
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
