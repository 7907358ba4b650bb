package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"taskflow/backend/internal/platform/ident"
	policydomain "taskflow/backend/internal/policy/domain"
	userdomain "taskflow/backend/internal/user/domain"
)

const principalKeyPrefix = "taskflow:principal:"

// cachedPrincipal is the JSON form stored in Redis.
type cachedPrincipal struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	TeamID string `json:"team_id,omitempty"`
}

// RedisPrincipalCache keeps principals in Redis with a fixed TTL.
type RedisPrincipalCache struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewRedisPrincipalCache returns a cache over rc. A nil client yields nil so callers can pass it
// straight to NewResolver.
func NewRedisPrincipalCache(rc *redis.Client, ttl time.Duration) PrincipalCache {
	if rc == nil {
		return nil
	}
	return &RedisPrincipalCache{rc: rc, ttl: ttl}
}

func principalKey(userID ident.ID) string {
	return principalKeyPrefix + userID.Normalized()
}

func (c *RedisPrincipalCache) Get(ctx context.Context, userID ident.ID) (*policydomain.Principal, error) {
	raw, err := c.rc.Get(ctx, principalKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	var cp cachedPrincipal
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &policydomain.Principal{
		ID:     ident.ID(cp.ID),
		Role:   userdomain.Role(cp.Role),
		TeamID: ident.ID(cp.TeamID),
	}, nil
}

func (c *RedisPrincipalCache) Set(ctx context.Context, p policydomain.Principal) error {
	payload, err := json.Marshal(cachedPrincipal{ID: p.ID.String(), Role: string(p.Role), TeamID: p.TeamID.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return c.rc.Set(ctx, principalKey(p.ID), payload, c.ttl).Err()
}

func (c *RedisPrincipalCache) Delete(ctx context.Context, userIDs ...ident.ID) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if !id.IsZero() {
			keys = append(keys, principalKey(id))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rc.Del(ctx, keys...).Err()
}
