package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

// TaskService implements task CRUD and the status views used by employees.
// It is also the collaborator the user directory queries for outstanding
// employee work.
type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) ListAllTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.repo.ListActive(ctx)
}

func (s *TaskService) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.repo.FindActiveByID(ctx, id)
}

func (s *TaskService) Save(ctx context.Context, input ports.SaveTaskInput) (*domain.Task, error) {
	status := domain.Status(input.Status)
	if status == "" {
		status = domain.StatusOpen
	}
	assignedDate := input.AssignedDate
	if assignedDate.IsZero() {
		assignedDate = time.Now().UTC()
	}

	task := &domain.Task{
		ID:               input.ID,
		ProjectCode:      input.ProjectCode,
		Subject:          input.Subject,
		Detail:           input.Detail,
		AssignedEmployee: input.AssignedEmployee,
		AssignedDate:     assignedDate,
		Status:           status,
		IsDeleted:        false,
	}

	saved, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("task_id", saved.ID).Str("project_code", saved.ProjectCode).Msg("task created")
	return saved, nil
}

func (s *TaskService) Update(ctx context.Context, input ports.SaveTaskInput) (*domain.Task, error) {
	existing, err := s.repo.FindActiveByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	existing.Subject = input.Subject
	existing.Detail = input.Detail
	existing.AssignedEmployee = input.AssignedEmployee
	if input.Status != "" {
		existing.Status = domain.Status(input.Status)
	}

	return s.repo.Save(ctx, existing)
}

// Delete soft-deletes the task. Task IDs are surrogate keys, so no
// tombstoning is needed.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	task, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return err
	}

	task.IsDeleted = true
	_, err = s.repo.Save(ctx, task)
	return err
}

func (s *TaskService) ListAllTasksByStatus(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	return s.repo.ListActiveByStatus(ctx, status)
}

func (s *TaskService) ListAllTasksByStatusIsNot(ctx context.Context, status domain.Status) ([]*domain.Task, error) {
	return s.repo.ListActiveByStatusNot(ctx, status)
}

func (s *TaskService) ListAllNonCompletedByAssignedEmployee(ctx context.Context, username string) ([]*domain.Task, error) {
	return s.repo.ListNonCompletedByEmployee(ctx, username)
}

// CompleteByProjectCode force-completes every open task of a project. Used
// by the project service when a manager completes a project.
func (s *TaskService) CompleteByProjectCode(ctx context.Context, projectCode string) error {
	tasks, err := s.repo.ListActiveByProjectCode(ctx, projectCode)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if task.Status == domain.StatusComplete {
			continue
		}
		task.Status = domain.StatusComplete
		if _, err := s.repo.Save(ctx, task); err != nil {
			return err
		}
	}
	return nil
}
