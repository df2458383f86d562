package ports

import (
	"context"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// UserRepository defines persistence for directory accounts. All read
// operations see only active (non-soft-deleted) records.
type UserRepository interface {
	// FindActiveByUsername returns the active user with the exact username,
	// or domain.ErrUserNotFound.
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	// Save persists the user, inserting or replacing by username, and
	// returns the stored representation.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// ListActiveByFirstNameDesc returns all active users ordered by first
	// name, descending. Ties keep store order.
	ListActiveByFirstNameDesc(ctx context.Context) ([]*domain.User, error)
}
