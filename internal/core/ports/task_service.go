package ports

import (
	"context"
	"time"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// SaveTaskInput carries the fields accepted on task create and update.
type SaveTaskInput struct {
	ID               string
	ProjectCode      string
	Subject          string
	Detail           string
	AssignedEmployee string
	AssignedDate     time.Time
	Status           string
}

// TaskService owns the Task lifecycle. It also exposes the read operation
// the user directory depends on for its deletion policy.
type TaskService interface {
	ListAllTasks(ctx context.Context) ([]*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Save(ctx context.Context, input SaveTaskInput) (*domain.Task, error)
	Update(ctx context.Context, input SaveTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	ListAllTasksByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	ListAllTasksByStatusIsNot(ctx context.Context, status domain.Status) ([]*domain.Task, error)
	ListAllNonCompletedByAssignedEmployee(ctx context.Context, username string) ([]*domain.Task, error)
	// CompleteByProjectCode force-completes every open task of a project.
	CompleteByProjectCode(ctx context.Context, projectCode string) error
}
