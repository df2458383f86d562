package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

const cacheTTL = 5 * time.Minute

// cacheClient is the slice of the go-redis API the cache uses. *redis.Client
// satisfies it.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedUserRepository is a read-through cache in front of the Mongo user
// repository. Lookups by username are served from Redis when possible;
// every write invalidates the affected key. Cache failures are logged and
// fall through to the underlying store, never to the caller.
type CachedUserRepository struct {
	inner  ports.UserRepository
	client cacheClient
	logger zerolog.Logger
}

func NewCachedUserRepository(inner ports.UserRepository, client cacheClient, logger zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{inner: inner, client: client, logger: logger}
}

// cachedUser carries the fields the JSON-facing domain struct hides.
type cachedUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"password_hash"`
	Enabled      bool   `json:"enabled"`
	Role         string `json:"role"`
}

func (r *CachedUserRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	key := r.key(username)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var cu cachedUser
		if err := json.Unmarshal(raw, &cu); err == nil {
			return cu.toDomain(), nil
		}
		// corrupt entry: drop it and fall through
		_ = r.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		r.logger.Warn().Err(err).Str("username", username).Msg("user cache read failed")
	}

	user, err := r.inner.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	r.set(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved, err := r.inner.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	// Invalidate rather than write-through: the stored representation is
	// authoritative. A tombstoned save renames the key, so the original
	// username is invalidated as well.
	keys := []string{r.key(user.Username)}
	if original, ok := domain.TombstoneOriginal(user.Username); ok {
		keys = append(keys, r.key(original))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn().Err(err).Str("username", user.Username).Msg("user cache invalidation failed")
	}
	return saved, nil
}

func (r *CachedUserRepository) ListActiveByFirstNameDesc(ctx context.Context) ([]*domain.User, error) {
	// Listings are not cached: the ordering and soft-delete filtering
	// belong to the store.
	return r.inner.ListActiveByFirstNameDesc(ctx)
}

func (r *CachedUserRepository) set(ctx context.Context, user *domain.User) {
	cu := cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: user.PasswordHash,
		Enabled:      user.Enabled,
		Role:         user.Role.Description,
	}
	raw, err := json.Marshal(cu)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(user.Username), raw, cacheTTL).Err(); err != nil {
		r.logger.Warn().Err(err).Str("username", user.Username).Msg("user cache write failed")
	}
}

func (r *CachedUserRepository) key(username string) string {
	return fmt.Sprintf("user:%s", username)
}

func (cu *cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:           cu.ID,
		Username:     cu.Username,
		FirstName:    cu.FirstName,
		LastName:     cu.LastName,
		PasswordHash: cu.PasswordHash,
		Enabled:      cu.Enabled,
		Role:         domain.Role{Description: cu.Role},
	}
}
