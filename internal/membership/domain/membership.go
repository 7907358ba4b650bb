package domain

import "errors"

// Storage-level outcomes of membership writes. Each one means a concurrent request won a race
// or a uniqueness rule held, and is surfaced to callers as a conflict.
var (
	// ErrUserHasTeam is returned when the compare-and-swap on a user's team found it already set.
	ErrUserHasTeam = errors.New("user already belongs to a team")
	// ErrTeamNameTaken is returned when a live team already uses the name.
	ErrTeamNameTaken = errors.New("team name already taken")
	// ErrTeamFull is returned when the team reached its member limit.
	ErrTeamFull = errors.New("team is full")
	// ErrNotMember is returned when removing a user who is not in the team.
	ErrNotMember = errors.New("user is not a member of the team")
)

// ErrTeamNotFound is returned when the team was deleted while a membership write was in flight.
var ErrTeamNotFound = errors.New("team not found")
