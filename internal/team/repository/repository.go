package repository

import (
	"context"

	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/team/domain"
)

// Repository reads teams. Team rows and member rows are written by the membership repository.
type Repository interface {
	// GetByID returns the live team with its members, or nil if missing or deleted.
	GetByID(ctx context.Context, id ident.ID) (*domain.Team, error)
}
