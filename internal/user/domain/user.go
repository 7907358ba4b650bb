package domain

import (
	"errors"
	"strings"
	"time"

	"taskflow/backend/internal/platform/ident"
)

// User is the core user entity. TeamID and TeamRole are either both set or both empty.
type User struct {
	ID        ident.ID
	Email     string
	Name      string
	Role      Role
	TeamID    ident.ID
	TeamRole  TeamRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role is the global role of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTeamLead Role = "team_lead"
	RoleUser     Role = "user"
	RoleViewer   Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeamLead, RoleUser, RoleViewer:
		return true
	}
	return false
}

// TeamRole is the user's position inside their team.
type TeamRole string

const (
	TeamRoleLead   TeamRole = "lead"
	TeamRoleMember TeamRole = "member"
)

// HasTeam reports whether the user currently belongs to a team.
func (u *User) HasTeam() bool {
	return !u.TeamID.IsZero()
}

// IsLeadOf reports whether the user leads teamID.
func (u *User) IsLeadOf(teamID ident.ID) bool {
	return u.TeamRole == TeamRoleLead && u.TeamID.Equal(teamID)
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if !u.Role.Valid() {
		return errors.New("unknown role " + string(u.Role))
	}
	if u.TeamID.IsZero() != (u.TeamRole == "") {
		return errors.New("team and team role must be set together")
	}
	return nil
}

// PromoteOnTeamCreate returns the user as the lead of the newly created team.
// Admins keep their role; everyone else becomes team_lead.
func PromoteOnTeamCreate(u User, teamID ident.ID) User {
	u.TeamID = teamID
	u.TeamRole = TeamRoleLead
	if u.Role != RoleAdmin {
		u.Role = RoleTeamLead
	}
	return u
}

// JoinAsMember returns the user as a plain member of teamID. The global role is unchanged.
func JoinAsMember(u User, teamID ident.ID) User {
	u.TeamID = teamID
	u.TeamRole = TeamRoleMember
	return u
}

// DemoteOnTeamExit returns the user with their team cleared. A team_lead who led the team
// falls back to user; admin is never lost.
func DemoteOnTeamExit(u User) User {
	if u.Role == RoleTeamLead && u.TeamRole == TeamRoleLead {
		u.Role = RoleUser
	}
	u.TeamID = ""
	u.TeamRole = ""
	return u
}
