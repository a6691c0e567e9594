package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/gate"
	"github.com/you/clinicgate/internal/session"
)

// GateMW applies gate decisions to page routes. The snapshot is built
// per request from the bearer token or session cookie, so on the server
// side it is never pending.
type GateMW struct {
	gate    *gate.Gate
	authSvc domain.AuthService
	audit   domain.AuditLogger
	log     *zap.Logger
}

// SessionCookie is the cookie page navigations carry the token in.
const SessionCookie = "clinicgate_token"

// NewGateMW creates new gate middleware wrapper
func NewGateMW(g *gate.Gate, authSvc domain.AuthService, audit domain.AuditLogger, log *zap.Logger) *GateMW {
	if log == nil {
		log = zap.NewNop()
	}
	return &GateMW{gate: g, authSvc: authSvc, audit: audit, log: log}
}

// Protected guards a route subtree that requires an authenticated
// account holding one of the given roles. An empty role list admits any
// authenticated account.
func (mw *GateMW) Protected(required ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := mw.Snapshot(c)
		decision := mw.gate.Protected(snap, required, c.Request.URL.Path)
		mw.apply(c, snap, decision)
	}
}

// Public guards routes that only make sense for signed-out visitors,
// such as the login page. Authenticated accounts are sent to their
// landing route instead.
func (mw *GateMW) Public() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := mw.Snapshot(c)
		decision := mw.gate.Public(snap)
		mw.apply(c, snap, decision)
	}
}

// Snapshot resolves the request's auth state. A request either carries
// a valid token or it does not, so the result is authenticated or
// unauthenticated, never initializing.
func (mw *GateMW) Snapshot(c *gin.Context) session.Snapshot {
	token, ok := bearerToken(c)
	if !ok {
		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
			token, ok = cookie, true
		}
	}
	if !ok {
		return session.Snapshot{State: session.StateUnauthenticated}
	}

	user, err := mw.authSvc.UserFromToken(c.Request.Context(), token)
	if err != nil {
		mw.log.Debug("gate: token rejected", zap.Error(err))
		return session.Snapshot{State: session.StateUnauthenticated}
	}
	return session.Snapshot{
		State: session.StateAuthenticated,
		Session: &domain.Session{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
			Role:  user.Role,
			Token: token,
		},
	}
}

// apply maps a gate decision onto the HTTP response.
func (mw *GateMW) apply(c *gin.Context, snap session.Snapshot, decision gate.Decision) {
	userID := ""
	if snap.Session != nil {
		userID = snap.Session.ID
	}

	switch decision.Outcome {
	case gate.OutcomeRender:
		mw.audit.LogEvent(c.Request.Context(),
			domain.NewAuditEvent(domain.AccessGrantedEvent, userID).
				WithRoute(c.Request.URL.Path).
				WithRole(snap.Role()))
		c.Next()
	case gate.OutcomeRedirect:
		target := decision.Target
		if decision.Replay != "" {
			target += "?redirect=" + url.QueryEscape(decision.Replay)
		}
		mw.audit.LogEvent(c.Request.Context(),
			domain.NewAuditEvent(domain.AccessRedirectedEvent, userID).
				WithRoute(c.Request.URL.Path).
				WithTarget(decision.Target))
		c.Redirect(http.StatusFound, target)
		c.Abort()
	default:
		// Pending never happens for request-scoped snapshots.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session state unavailable"})
		c.Abort()
	}
}
