package repository

import (
	"context"

	"taskflow/backend/internal/audit/domain"
)

// Repository defines persistence for audit entries. Entries are append-only.
type Repository interface {
	Create(ctx context.Context, e *domain.Entry) error
}
