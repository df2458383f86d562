package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/api/metrics"
	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

// deletionCheck decides whether a user with outstanding work may be soft
// deleted. A nil table entry means the role has no eligibility check.
type deletionCheck func(ctx context.Context, username string) error

// UserService implements the directory: user CRUD plus the role-keyed
// deletion-eligibility policy.
type UserService struct {
	repo     ports.UserRepository
	projects ports.ProjectCollaborator
	tasks    ports.TaskCollaborator
	encoder  ports.PasswordEncoder
	identity ports.IdentityProvider
	audit    ports.AuditRecorder
	checks   map[string]deletionCheck
	logger   zerolog.Logger
}

// NewUserService wires the directory service. identity and audit may be nil;
// provisioning and audit recording are then skipped.
func NewUserService(
	repo ports.UserRepository,
	projects ports.ProjectCollaborator,
	tasks ports.TaskCollaborator,
	encoder ports.PasswordEncoder,
	identity ports.IdentityProvider,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *UserService {
	s := &UserService{
		repo:     repo,
		projects: projects,
		tasks:    tasks,
		encoder:  encoder,
		identity: identity,
		audit:    audit,
		logger:   logger,
	}
	// Eligibility checks keyed by role. Roles with no entry (Admin) are
	// always eligible.
	s.checks = map[string]deletionCheck{
		domain.RoleManager:  s.checkManagerProjects,
		domain.RoleEmployee: s.checkEmployeeTasks,
	}
	return s
}

// ListAllUsers returns all active users ordered by first name, descending.
func (s *UserService) ListAllUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListActiveByFirstNameDesc(ctx)
}

// FindByUsername returns the active user with the exact username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindActiveByUsername(ctx, username)
}

// Save creates a new user. The password is hashed before it reaches the
// store; after the local persist the account is provisioned in the identity
// gateway, and a remote failure rolls the local record back.
func (s *UserService) Save(ctx context.Context, input ports.SaveUserInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.encoder.Encode(input.Password)
	if err != nil {
		return nil, fmt.Errorf("save user: encode password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Enabled:      input.Enabled,
		IsDeleted:    false,
		Role:         domain.Role{Description: input.Role},
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.identity != nil {
		if err := s.identity.CreateUser(ctx, input.Username, input.Password); err != nil {
			s.compensateCreate(ctx, saved)
			return nil, fmt.Errorf("save user: provision identity: %w", err)
		}
	}

	s.record(ctx, domain.AuditUserCreated, saved.Username)
	metrics.UsersCreatedTotal.WithLabelValues(input.Role).Inc()
	s.logger.Info().Str("username", saved.Username).Str("role", input.Role).Msg("user created")

	return saved, nil
}

// compensateCreate soft-deletes the record persisted just before a failed
// remote provisioning, so the directory and the gateway stay consistent.
func (s *UserService) compensateCreate(ctx context.Context, user *domain.User) {
	user.IsDeleted = true
	user.Username = domain.Tombstone(user.Username)
	if _, err := s.repo.Save(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("create compensation failed")
	}
}

// Update overwrites the mutable fields of an existing active user. The
// password is re-hashed on every call, whether or not it changed.
func (s *UserService) Update(ctx context.Context, input ports.SaveUserInput) (*domain.User, error) {
	existing, err := s.repo.FindActiveByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if input.Role != "" && !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.encoder.Encode(input.Password)
	if err != nil {
		return nil, fmt.Errorf("update user: encode password: %w", err)
	}

	existing.FirstName = input.FirstName
	existing.LastName = input.LastName
	existing.PasswordHash = hash
	existing.Enabled = input.Enabled
	if input.Role != "" {
		existing.Role = domain.Role{Description: input.Role}
	}

	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.AuditUserUpdated, saved.Username)
	metrics.UsersUpdatedTotal.Inc()

	return saved, nil
}

// Delete soft-deletes a user when the role's eligibility check passes.
// The stored username is tombstoned so the original becomes free for reuse;
// the Enabled flag is left untouched. On a blocked deletion nothing is
// mutated. After the local persist the gateway account is removed; a remote
// failure restores the local record.
func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.repo.FindActiveByUsername(ctx, username)
	if err != nil {
		return err
	}

	if check, ok := s.checks[user.Role.Description]; ok {
		if err := check(ctx, username); err != nil {
			return err
		}
	}

	original := user.Username
	user.IsDeleted = true
	user.Username = domain.Tombstone(original)

	if _, err := s.repo.Save(ctx, user); err != nil {
		return err
	}

	if s.identity != nil {
		if err := s.identity.DeleteUser(ctx, original); err != nil {
			s.compensateDelete(ctx, user, original)
			return fmt.Errorf("delete user: deprovision identity: %w", err)
		}
	}

	s.record(ctx, domain.AuditUserDeleted, original)
	metrics.UsersDeletedTotal.WithLabelValues(user.Role.Description).Inc()
	s.logger.Info().Str("username", original).Str("role", user.Role.Description).Msg("user deleted")

	return nil
}

// compensateDelete undoes a local soft delete after the gateway refused to
// drop the account.
func (s *UserService) compensateDelete(ctx context.Context, user *domain.User, original string) {
	user.Username = original
	user.IsDeleted = false
	if _, err := s.repo.Save(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", original).Msg("delete compensation failed")
	}
}

func (s *UserService) checkManagerProjects(ctx context.Context, username string) error {
	count, err := s.projects.CountNonCompletedByAssignedManager(ctx, username)
	if err != nil {
		return err
	}
	if count > 0 {
		metrics.UserDeletionsBlockedTotal.WithLabelValues(domain.RoleManager).Inc()
		return domain.ErrUserDeletionBlocked
	}
	return nil
}

func (s *UserService) checkEmployeeTasks(ctx context.Context, username string) error {
	tasks, err := s.tasks.ListAllNonCompletedByAssignedEmployee(ctx, username)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		metrics.UserDeletionsBlockedTotal.WithLabelValues(domain.RoleEmployee).Inc()
		return domain.ErrUserDeletionBlocked
	}
	return nil
}

func (s *UserService) record(ctx context.Context, action domain.AuditAction, username string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Action:    action,
		Username:  username,
		Actor:     domain.ActorFromContext(ctx),
		Timestamp: time.Now().UTC(),
	})
}

