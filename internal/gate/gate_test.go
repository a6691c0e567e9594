package gate

import (
	"testing"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/routes"
	"github.com/you/clinicgate/internal/session"
)

func authenticated(role domain.Role) session.Snapshot {
	return session.Snapshot{
		State:   session.StateAuthenticated,
		Session: &domain.Session{ID: "u-1", Role: role},
	}
}

var (
	unauthenticated = session.Snapshot{State: session.StateUnauthenticated}
	initializing    = session.Snapshot{State: session.StateInitializing}
)

func TestGate_Protected(t *testing.T) {
	tests := []struct {
		name     string
		snap     session.Snapshot
		required []domain.Role
		location string
		want     Decision
	}{
		{
			name:     "pending while rehydration in flight",
			snap:     initializing,
			required: []domain.Role{domain.RoleDoctor},
			location: "/doctor/dashboard",
			want:     Pending(),
		},
		{
			name:     "absent session redirects to login with replay",
			snap:     unauthenticated,
			required: []domain.Role{domain.RoleDoctor},
			location: "/doctor/dashboard",
			want:     RedirectTo("/login", "/doctor/dashboard"),
		},
		{
			name:     "absent session redirects to login even with empty required set",
			snap:     unauthenticated,
			required: nil,
			location: "/settings",
			want:     RedirectTo("/login", "/settings"),
		},
		{
			name:     "wrong role bounces to own landing, never login",
			snap:     authenticated(domain.RolePatient),
			required: []domain.Role{domain.RoleDoctor},
			location: "/doctor/dashboard",
			want:     RedirectTo("/patient/home", ""),
		},
		{
			name:     "matching role renders",
			snap:     authenticated(domain.RoleDoctor),
			required: []domain.Role{domain.RoleDoctor},
			location: "/doctor/dashboard",
			want:     Render(),
		},
		{
			name:     "role among several allowed renders",
			snap:     authenticated(domain.RoleHospital),
			required: []domain.Role{domain.RoleDoctor, domain.RoleHospital},
			location: "/analytics",
			want:     Render(),
		},
		{
			name:     "empty required set admits any authenticated role",
			snap:     authenticated(domain.RoleHospital),
			required: nil,
			location: "/settings",
			want:     Render(),
		},
	}

	g := New(routes.New())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Protected(tt.snap, tt.required, tt.location)
			if got != tt.want {
				t.Errorf("Protected() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Each role is always bounced to its own landing from any route that
// excludes it, never rendered and never sent to login.
func TestGate_Protected_WrongRoleAlwaysBouncesHome(t *testing.T) {
	table := routes.New()
	g := New(table)

	for _, role := range domain.Roles() {
		var excluding []domain.Role
		for _, other := range domain.Roles() {
			if other != role {
				excluding = append(excluding, other)
			}
		}

		got := g.Protected(authenticated(role), excluding, "/somewhere")
		want := RedirectTo(table.Landing(role), "")
		if got != want {
			t.Errorf("role %s on excluding route: got %+v, want %+v", role, got, want)
		}
	}
}

func TestGate_Public(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want Decision
	}{
		{
			name: "pending while rehydration in flight",
			snap: initializing,
			want: Pending(),
		},
		{
			name: "authenticated patient redirected to landing",
			snap: authenticated(domain.RolePatient),
			want: RedirectTo("/patient/home", ""),
		},
		{
			name: "authenticated hospital redirected to landing",
			snap: authenticated(domain.RoleHospital),
			want: RedirectTo("/hospital/dashboard", ""),
		},
		{
			name: "absent session renders",
			snap: unauthenticated,
			want: Render(),
		},
	}

	g := New(routes.New())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Public(tt.snap)
			if got != tt.want {
				t.Errorf("Public() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecision_OutcomesAreDistinct(t *testing.T) {
	if Pending() == Render() || Pending().Outcome == RedirectTo("/login", "").Outcome {
		t.Fatal("pending must be distinct from both render and redirect")
	}
}
