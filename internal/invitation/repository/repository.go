package repository

import (
	"context"
	"errors"

	"taskflow/backend/internal/invitation/domain"
	"taskflow/backend/internal/platform/ident"
)

// ErrDuplicatePending is returned by Create when a pending invitation already exists for the pair.
var ErrDuplicatePending = errors.New("pending invitation already exists")

// Repository defines persistence for invitations. Acceptance is written by the membership repository
// because it must commit together with the membership change.
type Repository interface {
	GetByID(ctx context.Context, id ident.ID) (*domain.Invitation, error)
	// HasPending reports whether a pending invitation exists for (recipientID, teamID).
	HasPending(ctx context.Context, recipientID, teamID ident.ID) (bool, error)
	// ListPendingForRecipient returns pending invitations addressed to recipientID, newest first.
	ListPendingForRecipient(ctx context.Context, recipientID ident.ID) ([]*domain.Invitation, error)
	// Create stores a pending invitation. Returns ErrDuplicatePending when the pair already has one.
	Create(ctx context.Context, inv *domain.Invitation) error
	// Reject moves a pending invitation to rejected. Returns domain.ErrAlreadyProcessed if it was not pending.
	Reject(ctx context.Context, inv *domain.Invitation) error
}
