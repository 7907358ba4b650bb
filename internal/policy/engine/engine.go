// Package engine decides task access from relational attributes of a principal and a task.
//
// Decisions follow a fixed precedence: an explicit relation (creator, assignee,
// shared-with) always grants, then team membership combined with visibility or
// the team_lead role, and anything else is denied. All functions are pure.
package engine

import (
	"taskflow/backend/internal/platform/apperr"
	"taskflow/backend/internal/policy/domain"
	taskdomain "taskflow/backend/internal/task/domain"
)

// CanView reports whether p may read t.
func CanView(p domain.Principal, t *taskdomain.Task) bool {
	if p.IsAdmin() {
		return true
	}
	if t.IsCreator(p.ID) || t.IsAssignee(p.ID) || t.IsSharedWith(p.ID) {
		return true
	}
	if sameTeam(p, t) {
		return p.IsTeamLead() || t.Visibility.TeamReadable()
	}
	return false
}

// CanUpdate reports whether p may modify t.
func CanUpdate(p domain.Principal, t *taskdomain.Task) bool {
	if p.IsAdmin() {
		return true
	}
	if t.IsCreator(p.ID) || t.IsAssignee(p.ID) {
		return true
	}
	return p.IsTeamLead() && sameTeam(p, t)
}

// CanDelete reports whether p may delete t. Without a team only the creator may delete.
func CanDelete(p domain.Principal, t *taskdomain.Task) bool {
	if p.IsAdmin() {
		return true
	}
	if t.IsCreator(p.ID) {
		return true
	}
	return p.IsTeamLead() && sameTeam(p, t)
}

// Can dispatches to the predicate for action. Unknown actions are denied.
func Can(action domain.Action, p domain.Principal, t *taskdomain.Task) bool {
	switch action {
	case domain.ActionView:
		return CanView(p, t)
	case domain.ActionUpdate:
		return CanUpdate(p, t)
	case domain.ActionDelete:
		return CanDelete(p, t)
	}
	return false
}

// Ensure returns an authorization error naming action and the task id when p is denied.
func Ensure(action domain.Action, p domain.Principal, t *taskdomain.Task) error {
	if Can(action, p, t) {
		return nil
	}
	return apperr.Authorization(string(action), t.ID.String())
}

func sameTeam(p domain.Principal, t *taskdomain.Task) bool {
	return p.HasTeam() && t.InTeam(p.TeamID)
}
