package ports

import (
	"context"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

// UserService owns the User lifecycle: CRUD plus the deletion-eligibility
// policy. Delete is a soft delete: the record survives with IsDeleted set
// and a tombstoned username.
type UserService interface {
	ListAllUsers(ctx context.Context) ([]*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Save(ctx context.Context, input SaveUserInput) (*domain.User, error)
	Update(ctx context.Context, input SaveUserInput) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}

// SaveUserInput carries the fields accepted on create and update. Password
// arrives in plaintext and is hashed before it ever reaches the store.
type SaveUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
	Enabled   bool
	Role      string
}
