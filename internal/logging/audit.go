// Package logging holds the zap-backed audit logger.
package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
)

// ZapAuditLogger implements domain.AuditLogger on a zap logger. Audit
// failures never propagate to the audited operation.
type ZapAuditLogger struct {
	log *zap.Logger
}

// NewAuditLogger creates an audit logger writing through log.
func NewAuditLogger(log *zap.Logger) *ZapAuditLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapAuditLogger{log: log.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (l *ZapAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Bool("success", event.Success),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.Role != "" {
		fields = append(fields, zap.String("role", event.Role.String()))
	}
	if event.Route != "" {
		fields = append(fields, zap.String("route", event.Route))
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}

	if event.Success {
		l.log.Info("audit event", fields...)
	} else {
		l.log.Warn("audit event", fields...)
	}
}
