package repository

import (
	"context"
	"errors"

	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/policy/engine"
	"taskflow/backend/internal/task/domain"
)

// ErrNotFound is returned by writes that target a missing task.
var ErrNotFound = errors.New("task not found")

// ListQuery narrows a listing. Filter is the authorization predicate and is always applied;
// the remaining fields only narrow it further. Deleted tasks are never listed.
type ListQuery struct {
	Filter   engine.ReadFilter
	Status   domain.Status
	Priority domain.Priority
	Search   string
	Limit    int
	Offset   int
}

// Repository defines persistence for tasks.
type Repository interface {
	// GetByID returns the task in any deletion state, or nil if it does not exist.
	GetByID(ctx context.Context, id ident.ID) (*domain.Task, error)
	List(ctx context.Context, q ListQuery) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	// Update overwrites the mutable fields of a live task. Returns ErrNotFound if it is missing or deleted.
	Update(ctx context.Context, t *domain.Task) error
	// SoftDelete marks a live task deleted. Deleting an already deleted task returns ErrNotFound.
	SoftDelete(ctx context.Context, id, actorID ident.ID) error
	// Restore clears the deletion marker. Restoring a live task is a no-op.
	Restore(ctx context.Context, id ident.ID) error
	// Delete removes the record permanently.
	Delete(ctx context.Context, id ident.ID) error
}
