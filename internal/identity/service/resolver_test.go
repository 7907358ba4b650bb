package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"taskflow/backend/internal/platform/ident"
	policydomain "taskflow/backend/internal/policy/domain"
	userdomain "taskflow/backend/internal/user/domain"
)

type memUserRepo struct {
	mu    sync.Mutex
	byID  map[ident.ID]*userdomain.User
	calls int
	err   error
}

func (r *memUserRepo) GetByID(ctx context.Context, id ident.ID) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.byID[ident.ID(id.Normalized())], nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]policydomain.Principal
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]policydomain.Principal{}}
}

func (c *memCache) Get(ctx context.Context, userID ident.ID) (*policydomain.Principal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.entries[userID.Normalized()]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCache) Set(ctx context.Context, p policydomain.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.ID.Normalized()] = p
	return nil
}

func (c *memCache) Delete(ctx context.Context, userIDs ...ident.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.entries, id.Normalized())
	}
	return nil
}

func newUsers() *memUserRepo {
	return &memUserRepo{byID: map[ident.ID]*userdomain.User{
		"u1": {ID: "u1", Email: "u1@example.com", Role: userdomain.RoleTeamLead, TeamID: "t1", TeamRole: userdomain.TeamRoleLead},
	}}
}

func TestResolver_NoCacheReadsStore(t *testing.T) {
	users := newUsers()
	r := NewResolver(users, nil)
	p, err := r.Resolve(context.Background(), "U1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Role != userdomain.RoleTeamLead || !p.TeamID.Equal("t1") {
		t.Errorf("principal = %+v", p)
	}
	r.Invalidate(context.Background(), "u1") // no cache: must not panic
}

func TestResolver_UnknownUser(t *testing.T) {
	r := NewResolver(newUsers(), nil)
	for _, id := range []ident.ID{"", "ghost"} {
		if _, err := r.Resolve(context.Background(), id); !errors.Is(err, ErrUnknownUser) {
			t.Errorf("Resolve(%q) = %v, want ErrUnknownUser", id, err)
		}
	}
}

func TestResolver_CachesAndInvalidates(t *testing.T) {
	users := newUsers()
	cache := newMemCache()
	r := NewResolver(users, cache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(ctx, "u1"); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if users.calls != 1 {
		t.Errorf("store calls = %d, want 1 (cached)", users.calls)
	}

	users.byID["u1"] = &userdomain.User{ID: "u1", Role: userdomain.RoleUser}
	r.Invalidate(ctx, "u1")
	p, err := r.Resolve(ctx, "u1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Role != userdomain.RoleUser || p.HasTeam() {
		t.Errorf("after invalidate principal = %+v, want fresh user without team", p)
	}
}

func TestResolver_CacheErrorFallsBack(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	r := NewResolver(newUsers(), cache)
	if _, err := r.Resolve(context.Background(), "u1"); err != nil {
		t.Fatalf("Resolve should fall back to store, got %v", err)
	}
}

func TestNewRedisPrincipalCache_NilClient(t *testing.T) {
	if c := NewRedisPrincipalCache(nil, 0); c != nil {
		t.Errorf("nil client should yield nil cache, got %T", c)
	}
	if got := principalKey(" U1 "); got != "taskflow:principal:u1" {
		t.Errorf("principalKey = %q", got)
	}
}
