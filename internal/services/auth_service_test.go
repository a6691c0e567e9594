package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/mocks"
)

type authFixture struct {
	users    *mocks.MockUserRepository
	registry *mocks.MockTokenRegistry
	password *mocks.MockPasswordService
	tokens   *mocks.MockTokenService
	notifier *mocks.MockNotificationService
	svc      domain.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    mocks.NewMockUserRepository(),
		registry: mocks.NewMockTokenRegistry(),
		password: mocks.NewMockPasswordService(),
		tokens:   mocks.NewMockTokenService(),
		notifier: mocks.NewMockNotificationService(),
	}
	f.svc = NewAuthService(f.users, f.registry, f.password, f.tokens, f.notifier, nil, nil)
	return f
}

func demoDoctor() *domain.User {
	return &domain.User{
		ID:           "doc-001",
		Email:        "doctor@demo.com",
		Name:         "Dr. Priya Sharma",
		PasswordHash: "hashed:demo123",
		Role:         domain.RoleDoctor,
		IsActive:     true,
		Profile:      map[string]any{"specialty": "Cardiology"},
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(f *authFixture)
		email   string
		pass    string
		role    domain.Role
		wantErr error
	}{
		{
			name: "successful doctor login",
			setup: func(f *authFixture) {
				f.users.FindByEmailFunc = func(_ context.Context, email string) (*domain.User, error) {
					return demoDoctor(), nil
				}
				f.users.FindByIDFunc = func(_ context.Context, id string) (*domain.User, error) {
					return demoDoctor(), nil
				}
			},
			email: "doctor@demo.com", pass: "demo123", role: domain.RoleDoctor,
		},
		{
			name:  "unknown email",
			setup: func(f *authFixture) {},
			email: "nobody@demo.com", pass: "demo123", role: domain.RolePatient,
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "wrong role for account",
			setup: func(f *authFixture) {
				f.users.FindByEmailFunc = func(_ context.Context, email string) (*domain.User, error) {
					return demoDoctor(), nil
				}
			},
			email: "doctor@demo.com", pass: "demo123", role: domain.RolePatient,
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(f *authFixture) {
				f.users.FindByEmailFunc = func(_ context.Context, email string) (*domain.User, error) {
					return demoDoctor(), nil
				}
			},
			email: "doctor@demo.com", pass: "wrong", role: domain.RoleDoctor,
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "inactive account",
			setup: func(f *authFixture) {
				f.users.FindByEmailFunc = func(_ context.Context, email string) (*domain.User, error) {
					u := demoDoctor()
					u.IsActive = false
					return u, nil
				}
			},
			email: "doctor@demo.com", pass: "demo123", role: domain.RoleDoctor,
			wantErr: domain.ErrUserInactive,
		},
		{
			name:  "role outside the closed set",
			setup: func(f *authFixture) {},
			email: "doctor@demo.com", pass: "demo123", role: domain.Role("superuser"),
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setup(f)

			result, err := f.svc.Login(ctx, tt.email, tt.pass, tt.role)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result.Session)
			assert.Equal(t, "doc-001", result.Session.ID)
			assert.Equal(t, domain.RoleDoctor, result.Session.Role)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, result.Token, result.Session.Token)

			// The issued token is registered and resolvable.
			user, err := f.svc.UserFromToken(ctx, result.Token)
			require.NoError(t, err)
			assert.Equal(t, "doc-001", user.ID)
		})
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates patient with clinical profile and auto-login", func(t *testing.T) {
		f := newAuthFixture()
		var created *domain.User
		f.users.CreateFunc = func(_ context.Context, u *domain.User) error {
			created = u
			return nil
		}

		result, err := f.svc.Signup(ctx, domain.PatientSignup{
			Name:       "Jane Roe",
			Email:      "jane@demo.com",
			Phone:      "+91 9000000001",
			Password:   "secret12",
			BloodGroup: "AB+",
			Allergies:  []string{"Sulfa"},
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, domain.RolePatient, created.Role)
		assert.True(t, created.IsActive)
		assert.True(t, strings.HasPrefix(created.ID, "patient-"))
		assert.Equal(t, "hashed:secret12", created.PasswordHash)
		assert.Equal(t, "AB+", created.Profile["blood_group"])

		assert.Equal(t, domain.RolePatient, result.Session.Role)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("phone-only signup gets placeholder email", func(t *testing.T) {
		f := newAuthFixture()
		var created *domain.User
		f.users.CreateFunc = func(_ context.Context, u *domain.User) error {
			created = u
			return nil
		}

		_, err := f.svc.Signup(ctx, domain.PatientSignup{
			Name: "Jane Roe", Phone: "+91 9000000002", Password: "secret12",
		})
		require.NoError(t, err)
		assert.Equal(t, "+91 9000000002@temp.ehr", created.Email)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		f := newAuthFixture()
		f.users.FindByEmailFunc = func(_ context.Context, email string) (*domain.User, error) {
			return demoDoctor(), nil
		}

		_, err := f.svc.Signup(ctx, domain.PatientSignup{
			Name: "X", Email: "doctor@demo.com", Phone: "+91 1", Password: "p",
		})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("duplicate phone rejected", func(t *testing.T) {
		f := newAuthFixture()
		f.users.FindByPhoneFunc = func(_ context.Context, phone string) (*domain.User, error) {
			return demoDoctor(), nil
		}

		_, err := f.svc.Signup(ctx, domain.PatientSignup{
			Name: "X", Phone: "+91 9876543211", Password: "p",
		})
		assert.ErrorIs(t, err, domain.ErrPhoneTaken)
	})
}

func TestAuthService_QuickSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("known phone returns existing identity with fresh token", func(t *testing.T) {
		f := newAuthFixture()
		existing := demoDoctor()
		f.users.FindByPhoneFunc = func(_ context.Context, phone string) (*domain.User, error) {
			return existing, nil
		}

		result, err := f.svc.QuickSignup(ctx, domain.QuickSignup{Phone: "+91 9876543211"})
		require.NoError(t, err)
		assert.True(t, result.ExistingUser)
		assert.Equal(t, existing.ID, result.Session.ID)
		assert.Empty(t, result.TempPassword)
		assert.Empty(t, f.notifier.Sent)
	})

	t.Run("new phone creates emergency patient and sends temp password", func(t *testing.T) {
		f := newAuthFixture()
		var created *domain.User
		f.users.CreateFunc = func(_ context.Context, u *domain.User) error {
			created = u
			return nil
		}

		result, err := f.svc.QuickSignup(ctx, domain.QuickSignup{
			Phone: "+91 9000000003", Emergency: true,
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.True(t, strings.HasPrefix(created.ID, "emergency-"))
		assert.Equal(t, "Emergency Patient", created.Name)
		assert.Equal(t, domain.RolePatient, created.Role)
		assert.Equal(t, true, created.Profile["is_emergency"])

		require.NotEmpty(t, result.TempPassword)
		require.Len(t, f.notifier.Sent, 1)
		assert.Equal(t, "+91 9000000003", f.notifier.Sent[0].To)
		assert.Contains(t, f.notifier.Sent[0].Message, result.TempPassword)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	name := "Dr. P. Sharma"

	t.Run("merges fields shallowly", func(t *testing.T) {
		f := newAuthFixture()
		stored := demoDoctor()
		f.users.FindByIDFunc = func(_ context.Context, id string) (*domain.User, error) {
			return stored, nil
		}
		var updated *domain.User
		f.users.UpdateFunc = func(_ context.Context, u *domain.User) error {
			updated = u
			return nil
		}

		sess, err := f.svc.UpdateProfile(ctx, "doc-001", domain.ProfileUpdate{
			Name:    &name,
			Profile: map[string]any{"experience_years": 16},
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, name, updated.Name)
		assert.Equal(t, 16, updated.Profile["experience_years"])
		assert.Equal(t, "Cardiology", updated.Profile["specialty"])

		assert.Equal(t, name, sess.Name)
		assert.Equal(t, domain.RoleDoctor, sess.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.UpdateProfile(ctx, "ghost", domain.ProfileUpdate{Name: &name})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the token", func(t *testing.T) {
		f := newAuthFixture()
		f.users.FindByEmailFunc = func(_ context.Context, email string) (*domain.User, error) {
			return demoDoctor(), nil
		}
		result, err := f.svc.Login(ctx, "doctor@demo.com", "demo123", domain.RoleDoctor)
		require.NoError(t, err)

		require.NoError(t, f.svc.Logout(ctx, result.Token))

		_, err = f.svc.UserFromToken(ctx, result.Token)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)

		// Logging out again is a no-op.
		assert.NoError(t, f.svc.Logout(ctx, result.Token))
	})

	t.Run("garbage token is a no-op", func(t *testing.T) {
		f := newAuthFixture()
		assert.NoError(t, f.svc.Logout(ctx, "not-a-token"))
	})
}
