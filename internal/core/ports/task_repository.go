package ports

import (
	"context"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// TaskRepository defines persistence for tasks. Reads see only active
// (non-soft-deleted) records.
type TaskRepository interface {
	FindActiveByID(ctx context.Context, id string) (*domain.Task, error)
	Save(ctx context.Context, task *domain.Task) (*domain.Task, error)
	ListActive(ctx context.Context) ([]*domain.Task, error)
	ListActiveByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	ListActiveByStatusNot(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	ListActiveByProjectCode(ctx context.Context, projectCode string) ([]*domain.Task, error)
	// ListNonCompletedByEmployee returns active tasks assigned to the
	// employee whose status is not Complete.
	ListNonCompletedByEmployee(ctx context.Context, username string) ([]*domain.Task, error)
}
