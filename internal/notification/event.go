// Package notification delivers invitation events to downstream consumers.
// Delivery is best-effort: failures are logged and never undo the operation that produced the event.
package notification

import (
	"time"

	"taskflow/backend/internal/platform/ident"
)

// EventType names a notification event.
type EventType string

const (
	EventInvitationCreated  EventType = "invitation.created"
	EventInvitationAccepted EventType = "invitation.accepted"
	EventInvitationRejected EventType = "invitation.rejected"
)

// Event is the payload written to every sink. RecipientID is the user being notified.
type Event struct {
	ID           ident.ID  `json:"id"`
	Type         EventType `json:"type"`
	RecipientID  ident.ID  `json:"recipientId"`
	ActorID      ident.ID  `json:"actorId"`
	TeamID       ident.ID  `json:"teamId"`
	InvitationID ident.ID  `json:"invitationId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewEvent returns an event with a fresh id stamped at now.
func NewEvent(typ EventType, recipientID, actorID, teamID, invitationID ident.ID, now time.Time) Event {
	return Event{
		ID:           ident.New(),
		Type:         typ,
		RecipientID:  recipientID,
		ActorID:      actorID,
		TeamID:       teamID,
		InvitationID: invitationID,
		CreatedAt:    now.UTC(),
	}
}
