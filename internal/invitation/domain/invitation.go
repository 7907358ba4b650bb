// Package domain holds the team invitation lifecycle.
//
// An invitation starts pending and ends either accepted or rejected. Both end
// states are terminal; nothing moves out of them.
package domain

import (
	"errors"
	"time"

	"taskflow/backend/internal/platform/ident"
)

// ErrAlreadyProcessed is returned when responding to an invitation that is no longer pending.
var ErrAlreadyProcessed = errors.New("invitation already processed")

// Status is the lifecycle state of an invitation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// transitions lists every legal (from, to) pair.
var transitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected},
}

// CanTransition reports whether an invitation may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Invitation asks RecipientID to join TeamID on behalf of SenderID.
type Invitation struct {
	ID          ident.ID
	TeamID      ident.ID
	SenderID    ident.ID
	RecipientID ident.ID
	Status      Status
	CreatedAt   time.Time
	RespondedAt *time.Time
}

// New returns a pending invitation.
func New(id, teamID, senderID, recipientID ident.ID, now time.Time) *Invitation {
	return &Invitation{
		ID:          id,
		TeamID:      teamID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      StatusPending,
		CreatedAt:   now,
	}
}

// IsFor reports whether the invitation is addressed to userID.
func (i *Invitation) IsFor(userID ident.ID) bool {
	return i.RecipientID.Equal(userID)
}

// Accept moves the invitation to accepted.
func (i *Invitation) Accept(now time.Time) error {
	return i.transition(StatusAccepted, now)
}

// Reject moves the invitation to rejected.
func (i *Invitation) Reject(now time.Time) error {
	return i.transition(StatusRejected, now)
}

func (i *Invitation) transition(to Status, now time.Time) error {
	if !CanTransition(i.Status, to) {
		return ErrAlreadyProcessed
	}
	i.Status = to
	i.RespondedAt = &now
	return nil
}
