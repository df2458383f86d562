package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

type fakeCacheClient struct {
	entries map[string]string
	deleted []string
	getErr  error
}

func newFakeCacheClient() *fakeCacheClient {
	return &fakeCacheClient{entries: make(map[string]string)}
}

func (f *fakeCacheClient) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCacheClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.entries[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCacheClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.entries[k]; ok {
			delete(f.entries, k)
			n++
		}
		f.deleted = append(f.deleted, k)
	}
	return redis.NewIntResult(n, nil)
}

type stubInnerRepo struct {
	user  *domain.User
	finds int
	saves int
}

func (s *stubInnerRepo) FindActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	s.finds++
	if s.user == nil || s.user.Username != username {
		return nil, domain.ErrUserNotFound
	}
	clone := *s.user
	return &clone, nil
}

func (s *stubInnerRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	s.saves++
	clone := *user
	s.user = &clone
	out := clone
	return &out, nil
}

func (s *stubInnerRepo) ListActiveByFirstNameDesc(_ context.Context) ([]*domain.User, error) {
	if s.user == nil {
		return nil, nil
	}
	clone := *s.user
	return []*domain.User{&clone}, nil
}

func cachedRepo(inner *stubInnerRepo, client *fakeCacheClient) *CachedUserRepository {
	return NewCachedUserRepository(inner, client, zerolog.Nop())
}

func TestCachedUserRepository_ReadThrough(t *testing.T) {
	inner := &stubInnerRepo{user: &domain.User{ID: "id-1", Username: "user1", FirstName: "John"}}
	client := newFakeCacheClient()
	repo := cachedRepo(inner, client)

	first, err := repo.FindActiveByUsername(context.Background(), "user1")
	if err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	if inner.finds != 1 {
		t.Fatalf("expected one store hit on a cold cache, got %d", inner.finds)
	}

	second, err := repo.FindActiveByUsername(context.Background(), "user1")
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if inner.finds != 1 {
		t.Fatalf("expected the second lookup to be served from cache, store hits: %d", inner.finds)
	}
	if *first != *second {
		t.Fatalf("cached user differs from stored user: %+v vs %+v", first, second)
	}
	if second.ID != "id-1" {
		t.Fatalf("cache dropped the storage id: %+v", second)
	}
}

func TestCachedUserRepository_CorruptEntryFallsThrough(t *testing.T) {
	inner := &stubInnerRepo{user: &domain.User{ID: "id-1", Username: "user1"}}
	client := newFakeCacheClient()
	client.entries["user:user1"] = "{not json"
	repo := cachedRepo(inner, client)

	user, err := repo.FindActiveByUsername(context.Background(), "user1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user.Username != "user1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if inner.finds != 1 {
		t.Fatalf("corrupt entry must fall through to the store, hits: %d", inner.finds)
	}
}

func TestCachedUserRepository_CacheErrorFallsThrough(t *testing.T) {
	inner := &stubInnerRepo{user: &domain.User{ID: "id-1", Username: "user1"}}
	client := newFakeCacheClient()
	client.getErr = errors.New("connection refused")
	repo := cachedRepo(inner, client)

	user, err := repo.FindActiveByUsername(context.Background(), "user1")
	if err != nil {
		t.Fatalf("cache failure must not surface to the caller: %v", err)
	}
	if user.Username != "user1" || inner.finds != 1 {
		t.Fatalf("expected the store to serve the lookup, user=%+v hits=%d", user, inner.finds)
	}
}

func TestCachedUserRepository_SaveInvalidatesTombstoneAndOriginal(t *testing.T) {
	inner := &stubInnerRepo{}
	client := newFakeCacheClient()
	client.entries["user:user3"] = `{"username":"user3"}`
	repo := cachedRepo(inner, client)

	tombstoned := &domain.User{ID: "id-1", Username: "user3-77560DD6", IsDeleted: true}
	if _, err := repo.Save(context.Background(), tombstoned); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if _, ok := client.entries["user:user3"]; ok {
		t.Fatalf("original username still cached after tombstoned save")
	}
	invalidated := map[string]bool{}
	for _, k := range client.deleted {
		invalidated[k] = true
	}
	if !invalidated["user:user3-77560DD6"] || !invalidated["user:user3"] {
		t.Fatalf("expected both the tombstoned and the original key invalidated, got %v", client.deleted)
	}
}

func TestCachedUserRepository_SaveInvalidatesWrittenKey(t *testing.T) {
	inner := &stubInnerRepo{}
	client := newFakeCacheClient()
	client.entries["user:user1"] = `{"username":"user1","first_name":"stale"}`
	repo := cachedRepo(inner, client)

	if _, err := repo.Save(context.Background(), &domain.User{ID: "id-1", Username: "user1", FirstName: "John"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, ok := client.entries["user:user1"]; ok {
		t.Fatalf("stale entry survived the save")
	}
}
