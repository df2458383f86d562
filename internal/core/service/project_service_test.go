package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

type stubProjectRepo struct {
	projects []*domain.Project
	nextID   int
}

func newStubProjectRepo(projects ...*domain.Project) *stubProjectRepo {
	r := &stubProjectRepo{}
	for _, p := range projects {
		clone := *p
		r.nextID++
		clone.ID = fmt.Sprintf("id-%d", r.nextID)
		r.projects = append(r.projects, &clone)
	}
	return r
}

func (r *stubProjectRepo) FindActiveByCode(_ context.Context, code string) (*domain.Project, error) {
	for _, p := range r.projects {
		if !p.IsDeleted && p.ProjectCode == code {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

// Save mirrors the store contract: without an id it inserts, rejecting an
// active code conflict; with an id it replaces the record the id
// identifies, whatever its current code.
func (r *stubProjectRepo) Save(_ context.Context, project *domain.Project) (*domain.Project, error) {
	clone := *project
	if project.ID == "" {
		for _, p := range r.projects {
			if !p.IsDeleted && p.ProjectCode == project.ProjectCode {
				return nil, domain.ErrProjectExists
			}
		}
		r.nextID++
		clone.ID = fmt.Sprintf("id-%d", r.nextID)
		r.projects = append(r.projects, &clone)
		out := clone
		return &out, nil
	}
	for i, p := range r.projects {
		if p.ID == project.ID {
			r.projects[i] = &clone
			out := clone
			return &out, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

func (r *stubProjectRepo) ListActive(_ context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if !p.IsDeleted {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) ListActiveByManager(_ context.Context, username string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if !p.IsDeleted && p.AssignedManager == username {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) ListNonCompletedByManager(_ context.Context, username string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if !p.IsDeleted && p.AssignedManager == username && p.Status != domain.StatusComplete {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) CountNonCompletedByManager(ctx context.Context, username string) (int64, error) {
	list, err := r.ListNonCompletedByManager(ctx, username)
	return int64(len(list)), err
}

type stubTaskCompleter struct {
	completed []string
	err       error
}

func (s *stubTaskCompleter) CompleteByProjectCode(_ context.Context, projectCode string) error {
	if s.err != nil {
		return s.err
	}
	s.completed = append(s.completed, projectCode)
	return nil
}

func TestProjectService_Complete_AlsoCompletesTasks(t *testing.T) {
	repo := newStubProjectRepo(&domain.Project{ProjectCode: "PR001", AssignedManager: "mgr", Status: domain.StatusInProgress})
	tasks := &stubTaskCompleter{}
	svc := NewProjectService(repo, tasks, zerolog.Nop())

	if err := svc.Complete(context.Background(), "PR001"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	p, err := repo.FindActiveByCode(context.Background(), "PR001")
	if err != nil {
		t.Fatalf("project lookup failed: %v", err)
	}
	if p.Status != domain.StatusComplete {
		t.Fatalf("expected Complete status, got %s", p.Status)
	}
	if len(tasks.completed) != 1 || tasks.completed[0] != "PR001" {
		t.Fatalf("expected project tasks to be completed, got %v", tasks.completed)
	}
}

func TestProjectService_Complete_NotFound(t *testing.T) {
	svc := NewProjectService(newStubProjectRepo(), &stubTaskCompleter{}, zerolog.Nop())

	if err := svc.Complete(context.Background(), "missing"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectService_Delete_TombstonesCode(t *testing.T) {
	repo := newStubProjectRepo(&domain.Project{ProjectCode: "PR001", AssignedManager: "mgr", Status: domain.StatusOpen})
	svc := NewProjectService(repo, &stubTaskCompleter{}, zerolog.Nop())

	if err := svc.Delete(context.Background(), "PR001"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetByProjectCode(context.Background(), "PR001"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("deleted project still resolvable: %v", err)
	}
	// The one stored record survives under the tombstoned code; the delete
	// must not leave the original behind next to a tombstoned copy.
	if len(repo.projects) != 1 {
		t.Fatalf("expected a single stored record after delete, store holds %d", len(repo.projects))
	}
	rec := repo.projects[0]
	if !rec.IsDeleted || !strings.HasPrefix(rec.ProjectCode, "PR001-") {
		t.Fatalf("stored record not tombstoned: %+v", rec)
	}
}

func TestProjectService_CountNonCompletedByAssignedManager(t *testing.T) {
	repo := newStubProjectRepo(
		&domain.Project{ProjectCode: "PR001", AssignedManager: "mgr", Status: domain.StatusOpen},
		&domain.Project{ProjectCode: "PR002", AssignedManager: "mgr", Status: domain.StatusComplete},
		&domain.Project{ProjectCode: "PR003", AssignedManager: "other", Status: domain.StatusOpen},
	)
	svc := NewProjectService(repo, &stubTaskCompleter{}, zerolog.Nop())

	count, err := svc.CountNonCompletedByAssignedManager(context.Background(), "mgr")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 non-completed project, got %d", count)
	}
}

func TestProjectService_Save_DefaultsToOpen(t *testing.T) {
	svc := NewProjectService(newStubProjectRepo(), &stubTaskCompleter{}, zerolog.Nop())

	p, err := svc.Save(context.Background(), ports.SaveProjectInput{ProjectCode: "PR010", ProjectName: "API rollout", AssignedManager: "mgr"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if p.Status != domain.StatusOpen {
		t.Fatalf("expected Open status default, got %s", p.Status)
	}
}
