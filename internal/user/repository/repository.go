package repository

import (
	"context"

	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/user/domain"
)

// Repository defines persistence for users. Team assignment is written only by the membership repository.
type Repository interface {
	GetByID(ctx context.Context, id ident.ID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []ident.ID) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdateProfile updates name, email and global role. Team fields are left untouched.
	UpdateProfile(ctx context.Context, u *domain.User) error
}
