package domain

import (
	"context"
	"time"
)

// AuditAction identifies a user-lifecycle mutation recorded in the audit trail.
type AuditAction string

const (
	AuditUserCreated AuditAction = "user_created"
	AuditUserUpdated AuditAction = "user_updated"
	AuditUserDeleted AuditAction = "user_deleted"
)

// AuditEvent is an append-only record of a directory mutation.
type AuditEvent struct {
	Action    AuditAction `json:"action"`
	Username  string      `json:"username"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type actorContextKey struct{}

// WithActor stores the authenticated username performing the current
// request so audit events can name who made the change.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, username)
}

// ActorFromContext returns the username stored by WithActor, or the empty
// string on an unauthenticated context.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorContextKey{}).(string)
	return actor
}
