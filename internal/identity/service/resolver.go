// Package service resolves authenticated user ids into policy principals.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"taskflow/backend/internal/platform/ident"
	policydomain "taskflow/backend/internal/policy/domain"
	userdomain "taskflow/backend/internal/user/domain"
)

// ErrUnknownUser is returned when the token subject has no user record.
var ErrUnknownUser = errors.New("identity: unknown user")

// UserReader is the slice of the user repository the resolver needs.
type UserReader interface {
	GetByID(ctx context.Context, id ident.ID) (*userdomain.User, error)
}

// PrincipalCache stores resolved principals. Get returns (nil, nil) on a miss.
type PrincipalCache interface {
	Get(ctx context.Context, userID ident.ID) (*policydomain.Principal, error)
	Set(ctx context.Context, p policydomain.Principal) error
	Delete(ctx context.Context, userIDs ...ident.ID) error
}

// Resolver turns a user id into the principal used for authorization. Role and team are always
// read from the user store (or a short-lived cache of it), never from the token.
type Resolver struct {
	users UserReader
	cache PrincipalCache
}

// NewResolver returns a resolver. cache may be nil, in which case every call reads the store.
func NewResolver(users UserReader, cache PrincipalCache) *Resolver {
	return &Resolver{users: users, cache: cache}
}

// Resolve returns the principal for userID. Cache failures are logged and fall back to the store.
func (r *Resolver) Resolve(ctx context.Context, userID ident.ID) (policydomain.Principal, error) {
	if userID.IsZero() {
		return policydomain.Principal{}, ErrUnknownUser
	}
	if r.cache != nil {
		p, err := r.cache.Get(ctx, userID)
		if err != nil {
			zap.L().Warn("identity: principal cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if p != nil {
			return *p, nil
		}
	}
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return policydomain.Principal{}, fmt.Errorf("identity: load user: %w", err)
	}
	if u == nil {
		return policydomain.Principal{}, ErrUnknownUser
	}
	p := policydomain.PrincipalFromUser(u)
	if r.cache != nil {
		if err := r.cache.Set(ctx, p); err != nil {
			zap.L().Warn("identity: principal cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return p, nil
}

// Invalidate drops cached principals so the next request sees the updated role and team.
func (r *Resolver) Invalidate(ctx context.Context, userIDs ...ident.ID) {
	if r.cache == nil || len(userIDs) == 0 {
		return
	}
	if err := r.cache.Delete(ctx, userIDs...); err != nil {
		zap.L().Warn("identity: principal cache invalidation failed", zap.Error(err))
	}
}
