package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/api/metrics"
	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

// ProjectService implements project CRUD and completion. It is also the
// collaborator the user directory queries for outstanding manager work.
type ProjectService struct {
	repo   ports.ProjectRepository
	tasks  ports.TaskCompleter
	logger zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, tasks ports.TaskCompleter, logger zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, tasks: tasks, logger: logger}
}

func (s *ProjectService) ListAllProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.repo.ListActive(ctx)
}

func (s *ProjectService) GetByProjectCode(ctx context.Context, projectCode string) (*domain.Project, error) {
	return s.repo.FindActiveByCode(ctx, projectCode)
}

func (s *ProjectService) Save(ctx context.Context, input ports.SaveProjectInput) (*domain.Project, error) {
	status := domain.Status(input.Status)
	if status == "" {
		status = domain.StatusOpen
	}

	project := &domain.Project{
		ProjectCode:     input.ProjectCode,
		ProjectName:     input.ProjectName,
		AssignedManager: input.AssignedManager,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		ProjectDetail:   input.ProjectDetail,
		Status:          status,
		IsDeleted:       false,
	}

	saved, err := s.repo.Save(ctx, project)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("project_code", saved.ProjectCode).Msg("project created")
	return saved, nil
}

func (s *ProjectService) Update(ctx context.Context, input ports.SaveProjectInput) (*domain.Project, error) {
	existing, err := s.repo.FindActiveByCode(ctx, input.ProjectCode)
	if err != nil {
		return nil, err
	}

	existing.ProjectName = input.ProjectName
	existing.AssignedManager = input.AssignedManager
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	existing.ProjectDetail = input.ProjectDetail
	if input.Status != "" {
		existing.Status = domain.Status(input.Status)
	}

	return s.repo.Save(ctx, existing)
}

// Delete soft-deletes the project and tombstones its code so the original
// code becomes free for reuse.
func (s *ProjectService) Delete(ctx context.Context, projectCode string) error {
	project, err := s.repo.FindActiveByCode(ctx, projectCode)
	if err != nil {
		return err
	}

	project.IsDeleted = true
	project.ProjectCode = domain.Tombstone(projectCode)

	_, err = s.repo.Save(ctx, project)
	return err
}

// Complete marks the project Complete and force-completes its open tasks.
func (s *ProjectService) Complete(ctx context.Context, projectCode string) error {
	project, err := s.repo.FindActiveByCode(ctx, projectCode)
	if err != nil {
		return err
	}

	project.Status = domain.StatusComplete
	if _, err := s.repo.Save(ctx, project); err != nil {
		return err
	}

	if err := s.tasks.CompleteByProjectCode(ctx, projectCode); err != nil {
		return err
	}

	metrics.ProjectsCompletedTotal.Inc()
	s.logger.Info().Str("project_code", projectCode).Msg("project completed")
	return nil
}

func (s *ProjectService) ListByAssignedManager(ctx context.Context, username string) ([]*domain.Project, error) {
	return s.repo.ListActiveByManager(ctx, username)
}

func (s *ProjectService) ListAllNonCompletedByAssignedManager(ctx context.Context, username string) ([]*domain.Project, error) {
	return s.repo.ListNonCompletedByManager(ctx, username)
}

func (s *ProjectService) CountNonCompletedByAssignedManager(ctx context.Context, username string) (int64, error) {
	return s.repo.CountNonCompletedByManager(ctx, username)
}
