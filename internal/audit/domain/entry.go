package domain

import (
	"time"

	"taskflow/backend/internal/platform/ident"
)

// Entry records one state-changing RPC: who called it, from which team, and how it ended.
type Entry struct {
	ID       ident.ID
	TeamID   ident.ID
	UserID   ident.ID
	Action   string
	Resource string
	// Code is the gRPC status code name of the outcome (e.g. "OK", "PermissionDenied").
	Code      string
	IP        string
	CreatedAt time.Time
}
