package ports

import "context"

// IdentityProvider provisions accounts in the external identity gateway
// (Keycloak). The directory persists locally first and provisions remotely
// second; a remote failure triggers a compensating local action.
type IdentityProvider interface {
	CreateUser(ctx context.Context, username, password string) error
	DeleteUser(ctx context.Context, username string) error
}
