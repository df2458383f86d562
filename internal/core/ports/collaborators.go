package ports

import (
	"context"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// ProjectCollaborator is the narrow read surface the user directory needs
// from the project service for its deletion-eligibility policy.
type ProjectCollaborator interface {
	CountNonCompletedByAssignedManager(ctx context.Context, username string) (int64, error)
	ListAllNonCompletedByAssignedManager(ctx context.Context, username string) ([]*domain.Project, error)
}

// TaskCollaborator is the narrow read surface the user directory needs from
// the task service.
type TaskCollaborator interface {
	ListAllNonCompletedByAssignedEmployee(ctx context.Context, username string) ([]*domain.Task, error)
}

// TaskCompleter is the write surface the project service needs from the
// task service when a project is completed.
type TaskCompleter interface {
	CompleteByProjectCode(ctx context.Context, projectCode string) error
}
