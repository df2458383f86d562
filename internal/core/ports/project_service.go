package ports

import (
	"context"
	"time"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// SaveProjectInput carries the fields accepted on project create and update.
type SaveProjectInput struct {
	ProjectCode     string
	ProjectName     string
	AssignedManager string
	StartDate       time.Time
	EndDate         time.Time
	ProjectDetail   string
	Status          string
}

// ProjectService owns the Project lifecycle. It also exposes the read
// operations the user directory depends on for its deletion policy.
type ProjectService interface {
	ListAllProjects(ctx context.Context) ([]*domain.Project, error)
	GetByProjectCode(ctx context.Context, projectCode string) (*domain.Project, error)
	Save(ctx context.Context, input SaveProjectInput) (*domain.Project, error)
	Update(ctx context.Context, input SaveProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, projectCode string) error
	// Complete marks the project Complete and completes its open tasks.
	Complete(ctx context.Context, projectCode string) error
	ListByAssignedManager(ctx context.Context, username string) ([]*domain.Project, error)
	ListAllNonCompletedByAssignedManager(ctx context.Context, username string) ([]*domain.Project, error)
	CountNonCompletedByAssignedManager(ctx context.Context, username string) (int64, error)
}
