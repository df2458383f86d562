package ports

import (
	"context"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// ProjectRepository defines persistence for projects. Reads see only active
// (non-soft-deleted) records.
type ProjectRepository interface {
	FindActiveByCode(ctx context.Context, projectCode string) (*domain.Project, error)
	Save(ctx context.Context, project *domain.Project) (*domain.Project, error)
	ListActive(ctx context.Context) ([]*domain.Project, error)
	ListActiveByManager(ctx context.Context, username string) ([]*domain.Project, error)
	// ListNonCompletedByManager returns active projects assigned to the
	// manager whose status is not Complete.
	ListNonCompletedByManager(ctx context.Context, username string) ([]*domain.Project, error)
	// CountNonCompletedByManager is the cheap form of the query above, used
	// by the user deletion-eligibility policy.
	CountNonCompletedByManager(ctx context.Context, username string) (int64, error)
}
