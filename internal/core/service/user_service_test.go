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

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   []*domain.User // insertion order preserved for tie-breaks
	nextID  int
	saveErr error // if set, Save returns this error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{}
	for _, u := range users {
		clone := *u
		r.nextID++
		clone.ID = fmt.Sprintf("id-%d", r.nextID)
		r.users = append(r.users, &clone)
	}
	return r
}

func (r *stubUserRepo) FindActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if !u.IsDeleted && u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Save mirrors the store contract: without an id it inserts, rejecting an
// active username conflict; with an id it replaces the record the id
// identifies, whatever its current username.
func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	clone := *user
	if user.ID == "" {
		for _, u := range r.users {
			if !u.IsDeleted && u.Username == user.Username {
				return nil, domain.ErrUserExists
			}
		}
		r.nextID++
		clone.ID = fmt.Sprintf("id-%d", r.nextID)
		r.users = append(r.users, &clone)
		out := clone
		return &out, nil
	}
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = &clone
			out := clone
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListActiveByFirstNameDesc(_ context.Context) ([]*domain.User, error) {
	var active []*domain.User
	for _, u := range r.users {
		if u.IsDeleted {
			continue
		}
		clone := *u
		active = append(active, &clone)
	}
	// insertion sort, first name descending, stable for equal names
	for i := 1; i < len(active); i++ {
		for j := i; j > 0 && active[j-1].FirstName < active[j].FirstName; j-- {
			active[j-1], active[j] = active[j], active[j-1]
		}
	}
	return active, nil
}

// stored returns the raw record currently held by the stub, bypassing the
// active-only filter.
func (r *stubUserRepo) stored(prefix string) *domain.User {
	for _, u := range r.users {
		if u.Username == prefix || strings.HasPrefix(u.Username, prefix+"-") {
			return u
		}
	}
	return nil
}

type countingEncoder struct {
	calls int
}

func (e *countingEncoder) Encode(plain string) (string, error) {
	e.calls++
	return "hashed:" + plain, nil
}

func (e *countingEncoder) Matches(plain, hash string) bool {
	return hash == "hashed:"+plain
}

type stubProjectCollab struct {
	nonCompleted []*domain.Project
	err          error
}

func (c *stubProjectCollab) CountNonCompletedByAssignedManager(_ context.Context, _ string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return int64(len(c.nonCompleted)), nil
}

func (c *stubProjectCollab) ListAllNonCompletedByAssignedManager(_ context.Context, _ string) ([]*domain.Project, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.nonCompleted, nil
}

type stubTaskCollab struct {
	nonCompleted []*domain.Task
	err          error
}

func (c *stubTaskCollab) ListAllNonCompletedByAssignedEmployee(_ context.Context, _ string) ([]*domain.Task, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.nonCompleted, nil
}

type stubIdentity struct {
	created   []string
	deleted   []string
	createErr error
	deleteErr error
}

func (p *stubIdentity) CreateUser(_ context.Context, username, _ string) error {
	if p.createErr != nil {
		return p.createErr
	}
	p.created = append(p.created, username)
	return nil
}

func (p *stubIdentity) DeleteUser(_ context.Context, username string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, username)
	return nil
}

type stubAudit struct {
	events []domain.AuditEvent
}

func (a *stubAudit) Record(event domain.AuditEvent) {
	a.events = append(a.events, event)
}

func managerUser(username string) *domain.User {
	return &domain.User{
		Username:  username,
		FirstName: "John",
		LastName:  "Doe",
		Enabled:   true,
		Role:      domain.Role{Description: domain.RoleManager},
	}
}

func newTestService(repo *stubUserRepo, projects *stubProjectCollab, tasks *stubTaskCollab, encoder *countingEncoder, identity ports.IdentityProvider) *UserService {
	if projects == nil {
		projects = &stubProjectCollab{}
	}
	if tasks == nil {
		tasks = &stubTaskCollab{}
	}
	if encoder == nil {
		encoder = &countingEncoder{}
	}
	return NewUserService(repo, projects, tasks, encoder, identity, nil, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestUserService_ListAllUsers(t *testing.T) {
	repo := newStubUserRepo(
		&domain.User{Username: "user1", FirstName: "Emily"},
		&domain.User{Username: "user2", FirstName: "John"},
		&domain.User{Username: "gone", FirstName: "Zoe", IsDeleted: true},
	)
	svc := newTestService(repo, nil, nil, nil, nil)

	users, err := svc.ListAllUsers(context.Background())
	if err != nil {
		t.Fatalf("ListAllUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 active users, got %d", len(users))
	}
	if users[0].FirstName != "John" || users[1].FirstName != "Emily" {
		t.Fatalf("expected first-name descending order, got %s, %s", users[0].FirstName, users[1].FirstName)
	}
	for _, u := range users {
		if u.IsDeleted {
			t.Fatalf("soft-deleted user %q leaked into listing", u.Username)
		}
	}
}

func TestUserService_FindByUsername(t *testing.T) {
	repo := newStubUserRepo(managerUser("user"))
	svc := newTestService(repo, nil, nil, nil, nil)

	user, err := svc.FindByUsername(context.Background(), "user")
	if err != nil {
		t.Fatalf("FindByUsername returned error: %v", err)
	}
	if user.Username != "user" || user.FirstName != "John" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserService_FindByUsername_Idempotent(t *testing.T) {
	repo := newStubUserRepo(managerUser("user"))
	svc := newTestService(repo, nil, nil, nil, nil)

	first, err := svc.FindByUsername(context.Background(), "user")
	if err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	second, err := svc.FindByUsername(context.Background(), "user")
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if *first != *second {
		t.Fatalf("repeated lookups differ: %+v vs %+v", first, second)
	}
}

func TestUserService_FindByUsername_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil, nil, nil, nil)

	_, err := svc.FindByUsername(context.Background(), "SomeUsername")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err.Error() != "User not found" {
		t.Fatalf("expected message %q, got %q", "User not found", err.Error())
	}
}

func TestUserService_Save_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	encoder := &countingEncoder{}
	svc := newTestService(repo, nil, nil, encoder, nil)

	saved, err := svc.Save(context.Background(), ports.SaveUserInput{
		Username:  "user",
		FirstName: "John",
		LastName:  "Doe",
		Password:  "Abc1",
		Enabled:   true,
		Role:      domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if encoder.calls != 1 {
		t.Fatalf("expected the encoder to be invoked exactly once, got %d", encoder.calls)
	}
	if saved.PasswordHash == "Abc1" {
		t.Fatalf("plaintext password reached the store")
	}
	if saved.PasswordHash != "hashed:Abc1" {
		t.Fatalf("unexpected stored hash: %q", saved.PasswordHash)
	}
	if saved.IsDeleted {
		t.Fatalf("new user must not be soft-deleted")
	}
}

func TestUserService_Save_RejectsUnknownRole(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil, nil, nil, nil)

	_, err := svc.Save(context.Background(), ports.SaveUserInput{Username: "u", Password: "p", Role: "Intern"})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Save_ProvisionsIdentity(t *testing.T) {
	repo := newStubUserRepo()
	identity := &stubIdentity{}
	svc := newTestService(repo, nil, nil, nil, identity)

	if _, err := svc.Save(context.Background(), ports.SaveUserInput{
		Username: "user", Password: "Abc1", Role: domain.RoleEmployee, Enabled: true,
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if len(identity.created) != 1 || identity.created[0] != "user" {
		t.Fatalf("expected identity provisioning for %q, got %v", "user", identity.created)
	}
}

func TestUserService_Save_CompensatesOnIdentityFailure(t *testing.T) {
	repo := newStubUserRepo()
	identity := &stubIdentity{createErr: errors.New("keycloak unavailable")}
	svc := newTestService(repo, nil, nil, nil, identity)

	_, err := svc.Save(context.Background(), ports.SaveUserInput{
		Username: "user", Password: "Abc1", Role: domain.RoleEmployee, Enabled: true,
	})
	if err == nil {
		t.Fatalf("expected provisioning error to propagate")
	}
	if _, err := svc.FindByUsername(context.Background(), "user"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected compensating soft delete, user still active: %v", err)
	}
}

func TestUserService_Update_RehashesEveryCall(t *testing.T) {
	repo := newStubUserRepo(managerUser("user"))
	encoder := &countingEncoder{}
	svc := newTestService(repo, nil, nil, encoder, nil)

	input := ports.SaveUserInput{
		Username:  "user",
		FirstName: "John",
		LastName:  "Doe",
		Password:  "Abc1",
		Enabled:   true,
		Role:      domain.RoleManager,
	}

	if _, err := svc.Update(context.Background(), input); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	if encoder.calls != 1 {
		t.Fatalf("expected exactly one encode per update, got %d", encoder.calls)
	}

	// Same payload again: the password did not change but is re-hashed anyway.
	if _, err := svc.Update(context.Background(), input); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if encoder.calls != 2 {
		t.Fatalf("expected exactly one encode per update, got %d after two updates", encoder.calls)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil, nil, nil, nil)

	_, err := svc.Update(context.Background(), ports.SaveUserInput{Username: "ghost", Password: "p"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete_Manager_NoOpenProjects(t *testing.T) {
	repo := newStubUserRepo(withRole("user3", domain.RoleManager))
	svc := newTestService(repo, &stubProjectCollab{}, nil, nil, nil)

	if err := svc.Delete(context.Background(), "user3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	stored := repo.stored("user3")
	if stored == nil {
		t.Fatalf("record vanished from store")
	}
	if !stored.IsDeleted {
		t.Fatalf("expected soft-delete flag set")
	}
	if stored.Username == "user3" {
		t.Fatalf("expected tombstoned username, still %q", stored.Username)
	}
}

func TestUserService_Delete_FreesOriginalUsername(t *testing.T) {
	repo := newStubUserRepo(withRole("user3", domain.RoleAdmin))
	svc := newTestService(repo, nil, nil, nil, nil)

	if err := svc.Delete(context.Background(), "user3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := svc.FindByUsername(context.Background(), "user3"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted user still resolvable by the original username: %v", err)
	}
	users, err := svc.ListAllUsers(context.Background())
	if err != nil {
		t.Fatalf("ListAllUsers returned error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("deleted user still listed: %+v", users[0])
	}
	// The delete rewrites the stored record in place; it must not leave the
	// original behind next to a tombstoned copy.
	if len(repo.users) != 1 {
		t.Fatalf("expected a single stored record after delete, store holds %d", len(repo.users))
	}
	rec := repo.users[0]
	if !rec.IsDeleted || !strings.HasPrefix(rec.Username, "user3-") {
		t.Fatalf("stored record not tombstoned: %+v", rec)
	}
}

func TestUserService_Save_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo(withRole("user1", domain.RoleManager))
	svc := newTestService(repo, nil, nil, nil, nil)

	_, err := svc.Save(context.Background(), ports.SaveUserInput{
		Username: "user1", Password: "Abc1", Role: domain.RoleEmployee,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Delete_Manager_OpenProjectsBlocked(t *testing.T) {
	repo := newStubUserRepo(withRole("user3", domain.RoleManager))
	projects := &stubProjectCollab{nonCompleted: []*domain.Project{{}, {}}}
	svc := newTestService(repo, projects, nil, nil, nil)

	err := svc.Delete(context.Background(), "user3")
	if !errors.Is(err, domain.ErrUserDeletionBlocked) {
		t.Fatalf("expected ErrUserDeletionBlocked, got %v", err)
	}
	if err.Error() != "User can not be deleted" {
		t.Fatalf("expected message %q, got %q", "User can not be deleted", err.Error())
	}

	stored := repo.stored("user3")
	if stored.IsDeleted {
		t.Fatalf("blocked deletion must not mutate the record")
	}
	if stored.Username != "user3" {
		t.Fatalf("blocked deletion must not tombstone the username, got %q", stored.Username)
	}
}

func TestUserService_Delete_Employee_OpenTasksBlocked(t *testing.T) {
	repo := newStubUserRepo(withRole("user4", domain.RoleEmployee))
	tasks := &stubTaskCollab{nonCompleted: []*domain.Task{{}}}
	svc := newTestService(repo, nil, tasks, nil, nil)

	err := svc.Delete(context.Background(), "user4")
	if !errors.Is(err, domain.ErrUserDeletionBlocked) {
		t.Fatalf("expected ErrUserDeletionBlocked, got %v", err)
	}
	if repo.stored("user4").IsDeleted {
		t.Fatalf("blocked deletion must not mutate the record")
	}
}

func TestUserService_Delete_EligibleRoles(t *testing.T) {
	for _, role := range []string{domain.RoleManager, domain.RoleEmployee, domain.RoleAdmin} {
		t.Run(role, func(t *testing.T) {
			repo := newStubUserRepo(withRole("user3", role))
			svc := newTestService(repo, &stubProjectCollab{}, &stubTaskCollab{}, nil, nil)

			if err := svc.Delete(context.Background(), "user3"); err != nil {
				t.Fatalf("Delete returned error: %v", err)
			}

			stored := repo.stored("user3")
			if !stored.IsDeleted {
				t.Fatalf("expected soft-delete flag set for %s", role)
			}
			if stored.Username == "user3" {
				t.Fatalf("expected tombstoned username for %s", role)
			}
		})
	}
}

func TestUserService_Delete_LeavesEnabledUntouched(t *testing.T) {
	user := withRole("user3", domain.RoleAdmin)
	user.Enabled = false
	repo := newStubUserRepo(user)
	svc := newTestService(repo, nil, nil, nil, nil)

	if err := svc.Delete(context.Background(), "user3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if repo.stored("user3").Enabled {
		t.Fatalf("delete must not touch the enabled flag")
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil, nil, nil, nil)

	err := svc.Delete(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete_DeprovisionsOriginalUsername(t *testing.T) {
	repo := newStubUserRepo(withRole("user3", domain.RoleAdmin))
	identity := &stubIdentity{}
	svc := newTestService(repo, nil, nil, nil, identity)

	if err := svc.Delete(context.Background(), "user3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(identity.deleted) != 1 || identity.deleted[0] != "user3" {
		t.Fatalf("expected gateway deprovisioning with the original username, got %v", identity.deleted)
	}
}

func TestUserService_Delete_CompensatesOnIdentityFailure(t *testing.T) {
	repo := newStubUserRepo(withRole("user3", domain.RoleAdmin))
	identity := &stubIdentity{deleteErr: errors.New("keycloak unavailable")}
	svc := newTestService(repo, nil, nil, nil, identity)

	if err := svc.Delete(context.Background(), "user3"); err == nil {
		t.Fatalf("expected deprovisioning error to propagate")
	}

	stored := repo.stored("user3")
	if stored.IsDeleted || stored.Username != "user3" {
		t.Fatalf("expected compensating restore, got %+v", stored)
	}
}

func TestUserService_Delete_CollaboratorErrorPropagates(t *testing.T) {
	repo := newStubUserRepo(withRole("user3", domain.RoleManager))
	boom := errors.New("store down")
	svc := newTestService(repo, &stubProjectCollab{err: boom}, nil, nil, nil)

	if err := svc.Delete(context.Background(), "user3"); !errors.Is(err, boom) {
		t.Fatalf("expected collaborator error to propagate, got %v", err)
	}
	if repo.stored("user3").IsDeleted {
		t.Fatalf("failed eligibility check must not mutate the record")
	}
}

func TestUserService_Delete_RecordsActor(t *testing.T) {
	repo := newStubUserRepo(withRole("user3", domain.RoleAdmin))
	audit := &stubAudit{}
	svc := NewUserService(repo, &stubProjectCollab{}, &stubTaskCollab{}, &countingEncoder{}, nil, audit, zerolog.Nop())

	ctx := domain.WithActor(context.Background(), "admin1")
	if err := svc.Delete(ctx, "user3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(audit.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audit.events))
	}
	ev := audit.events[0]
	if ev.Action != domain.AuditUserDeleted || ev.Username != "user3" || ev.Actor != "admin1" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func withRole(username, role string) *domain.User {
	return &domain.User{
		Username:  username,
		FirstName: "John",
		Enabled:   true,
		IsDeleted: false,
		Role:      domain.Role{Description: role},
	}
}
