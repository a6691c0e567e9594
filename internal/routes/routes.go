// Package routes holds the role router table: the pure mapping from a
// role to its canonical landing route.
package routes

import "github.com/you/clinicgate/domain"

// Default paths, matching the SPA's route layout.
const (
	DefaultLoginPath        = "/login"
	DefaultPatientLanding   = "/patient/home"
	DefaultDoctorLanding    = "/doctor/dashboard"
	DefaultHospitalLanding  = "/hospital/dashboard"
)

// Table maps each role to its landing route. It is total over the
// closed role set; anything else falls back to the login path.
type Table struct {
	login   string
	landing map[domain.Role]string
}

// Option overrides a default path on the table.
type Option func(*Table)

// WithLoginPath overrides the unauthenticated landing path.
func WithLoginPath(path string) Option {
	return func(t *Table) {
		if path != "" {
			t.login = path
		}
	}
}

// WithLanding overrides the landing route for one role.
func WithLanding(role domain.Role, path string) Option {
	return func(t *Table) {
		if role.Valid() && path != "" {
			t.landing[role] = path
		}
	}
}

// New builds a table with the default routes, applying any overrides.
func New(opts ...Option) *Table {
	t := &Table{
		login: DefaultLoginPath,
		landing: map[domain.Role]string{
			domain.RolePatient:  DefaultPatientLanding,
			domain.RoleDoctor:   DefaultDoctorLanding,
			domain.RoleHospital: DefaultHospitalLanding,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Landing returns the canonical landing route for a role. A role
// outside the closed set maps to the login path as a safe default.
func (t *Table) Landing(role domain.Role) string {
	if path, ok := t.landing[role]; ok {
		return path
	}
	return t.login
}

// LoginPath returns the unauthenticated landing path.
func (t *Table) LoginPath() string { return t.login }
