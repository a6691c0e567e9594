// Package gate implements the access gate: the decision core that
// resolves every navigation attempt to render, redirect or pending.
package gate

import (
	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/routes"
	"github.com/you/clinicgate/internal/session"
)

// Outcome is the closed set of gate results.
type Outcome int

const (
	// OutcomePending means rehydration is still in flight; the caller
	// shows a loading placeholder, never a redirect.
	OutcomePending Outcome = iota
	OutcomeRender
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the gate's verdict for one navigation attempt. It is
// recomputed per attempt and never persisted.
type Decision struct {
	Outcome Outcome
	// Target is the redirect path; empty unless Outcome is
	// OutcomeRedirect.
	Target string
	// Replay is the originally requested location, carried on
	// login redirects so the caller can return there after a later
	// successful login.
	Replay string
}

// Pending returns the pending decision.
func Pending() Decision { return Decision{Outcome: OutcomePending} }

// Render returns the admit decision.
func Render() Decision { return Decision{Outcome: OutcomeRender} }

// RedirectTo returns a redirect decision.
func RedirectTo(target, replay string) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target, Replay: replay}
}

// Gate evaluates guard requests against a provider snapshot and the
// role router table. It performs no I/O and cannot fail transiently.
type Gate struct {
	routes *routes.Table
}

// New creates a gate over the given router table.
func New(table *routes.Table) *Gate {
	return &Gate{routes: table}
}

// Protected guards a route that requires an authenticated session. An
// empty required set means any authenticated role is sufficient. The
// authentication check always runs before the role check: an
// unauthenticated user is sent to login with the requested location as
// replay, never role-redirected; a wrongly-scoped but authenticated
// user is bounced to their own landing route, never to login.
func (g *Gate) Protected(snap session.Snapshot, required []domain.Role, location string) Decision {
	if snap.Pending() {
		return Pending()
	}
	if !snap.IsAuthenticated() {
		return RedirectTo(g.routes.LoginPath(), location)
	}
	if len(required) > 0 && !roleAllowed(snap.Role(), required) {
		return RedirectTo(g.routes.Landing(snap.Role()), "")
	}
	return Render()
}

// Public guards a route reserved for unauthenticated visitors (login,
// signup). An authenticated user is sent to their landing route.
func (g *Gate) Public(snap session.Snapshot) Decision {
	if snap.Pending() {
		return Pending()
	}
	if snap.IsAuthenticated() {
		return RedirectTo(g.routes.Landing(snap.Role()), "")
	}
	return Render()
}

func roleAllowed(role domain.Role, required []domain.Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
