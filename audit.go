package gohris

import (
	"io"

	internalaudit "github.com/Bmat321/gohris/internal/audit"
)

// AuditEvent is a structured audit record emitted by the session manager.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the manager's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Audit event types emitted by the Manager.
const (
	auditEventLoginSuccess     = "login_success"
	auditEventLoginFailure     = "login_failure"
	auditEventTwoFactorIssued  = "two_factor_issued"
	auditEventTwoFactorSuccess = "two_factor_success"
	auditEventTwoFactorFailure = "two_factor_failure"
	auditEventLogout           = "logout"
	auditEventForcedLogout     = "forced_logout"
	auditEventSessionRestored  = "session_restored"
	auditEventRestoreRejected  = "restore_rejected"
	auditEventTokenRejected    = "token_rejected"
)
