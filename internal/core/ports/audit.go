package ports

import (
	"context"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// AuditRepository is the append-only store for the directory audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListByUsername(ctx context.Context, username string) ([]*domain.AuditEvent, error)
}

// AuditService persists audit events handed over by the dispatcher.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
	ListByUsername(ctx context.Context, username string) ([]*domain.AuditEvent, error)
}

// AuditRecorder is the write side handed to the directory services. Record
// must not block the request path; implementations enqueue and return.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
