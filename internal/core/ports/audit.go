package ports

import (
	"context"
	"time"
)

// AuditEvent records one security-relevant action.
type AuditEvent struct {
	Actor   string    `json:"actor" bson:"actor"`
	Action  string    `json:"action" bson:"action"`
	Subject string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Detail  string    `json:"detail,omitempty" bson:"detail,omitempty"`
	At      time.Time `json:"at" bson:"at"`
}

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording. Implementations
// must not block the caller beyond a bounded buffer.
type AuditSink interface {
	Enqueue(event AuditEvent)
}

// LoginLimiter throttles repeated failed logins per account.
type LoginLimiter interface {
	// Check returns domain.ErrLoginThrottled when the account has exceeded
	// the failure budget within the current window.
	Check(ctx context.Context, username string) error
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
