package ports

import (
	"context"
	"time"
)

// AuditAction names an authentication or authorization decision worth keeping.
type AuditAction string

const (
	AuditLogin         AuditAction = "login"
	AuditLogout        AuditAction = "logout"
	AuditTokenRejected AuditAction = "token_rejected"
	AuditForbidden     AuditAction = "forbidden"
	AuditRoleChanged   AuditAction = "role_changed"
	AuditDeactivated   AuditAction = "deactivated"
)

// AuditEvent is a single entry of the auth audit trail. Secrets and raw tokens
// never appear here.
type AuditEvent struct {
	Action    AuditAction
	SubjectID int64 // 0 when the subject is unknown
	Role      string
	Outcome   string
	Reason    string
	RequestID string
	Path      string
	At        time.Time
}

// AuditSink persists audit events.
type AuditSink interface {
	Write(ctx context.Context, event AuditEvent) error
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event AuditEvent)
}
