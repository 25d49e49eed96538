package gohris

import (
	"context"

	internalaudit "github.com/Bmat321/gohris/internal/audit"
)

type auditDispatcher = internalaudit.Dispatcher

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

// emitAudit builds and dispatches one audit event. Safe on a nil manager
// or a disabled dispatcher.
func (m *Manager) emitAudit(ctx context.Context, eventType string, sess *Session, success bool, opErr error, metadata map[string]string) {
	if m == nil || m.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: m.clock().UTC(),
		EventType: eventType,
		Success:   success,
		Metadata:  metadata,
	}
	if sess != nil {
		event.UserID = sess.ID
		event.Email = sess.Email
		event.Role = string(sess.Role)
		event.Source = sess.Source.String()
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	if device, ok := DeviceIDFromContext(ctx); ok {
		event.DeviceID = device
	}

	m.audit.Emit(ctx, event)
}
