package domain

import (
	"taskflow/backend/internal/platform/ident"
	userdomain "taskflow/backend/internal/user/domain"
)

// Principal is the authenticated actor a decision is made for.
type Principal struct {
	ID     ident.ID
	Role   userdomain.Role
	TeamID ident.ID
}

// PrincipalFromUser builds the principal for u.
func PrincipalFromUser(u *userdomain.User) Principal {
	return Principal{ID: u.ID, Role: u.Role, TeamID: u.TeamID}
}

func (p Principal) IsAdmin() bool { return p.Role == userdomain.RoleAdmin }

func (p Principal) IsTeamLead() bool { return p.Role == userdomain.RoleTeamLead }

func (p Principal) HasTeam() bool { return !p.TeamID.IsZero() }

// CanAssignOthers reports whether the principal may assign work to someone else.
func (p Principal) CanAssignOthers() bool {
	return p.IsAdmin() || p.IsTeamLead()
}

// Action is an operation checked against a task.
type Action string

const (
	ActionView   Action = "VIEW"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Actions lists every action in a stable order.
var Actions = []Action{ActionView, ActionUpdate, ActionDelete}
