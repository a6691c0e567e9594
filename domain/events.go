package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserSignupEvent       AuditEventType = "USER_SIGNUP"
	UserQuickSignupEvent  AuditEventType = "USER_QUICK_SIGNUP"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"
	ProfileUpdateEvent    AuditEventType = "PROFILE_UPDATED"

	// Gate events
	AccessGrantedEvent    AuditEventType = "ACCESS_GRANTED"
	AccessRedirectedEvent AuditEventType = "ACCESS_REDIRECTED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType `json:"event_type"`
	UserID    string         `json:"user_id,omitempty"`
	Role      Role           `json:"role,omitempty"`
	Route     string         `json:"route,omitempty"`
	Target    string         `json:"target,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Success   bool           `json:"success"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
}

// AuditLogger records audit events; implementations must never fail the
// operation being audited.
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithRole sets the role field
func (e *AuditEvent) WithRole(role Role) *AuditEvent {
	e.Role = role
	return e
}

// WithRoute sets the route the event concerns
func (e *AuditEvent) WithRoute(route string) *AuditEvent {
	e.Route = route
	return e
}

// WithTarget sets the redirect target for gate events
func (e *AuditEvent) WithTarget(target string) *AuditEvent {
	e.Target = target
	return e
}
