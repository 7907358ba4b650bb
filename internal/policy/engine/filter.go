package engine

import (
	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/policy/domain"
	taskdomain "taskflow/backend/internal/task/domain"
)

// ReadFilter is the listing predicate for one principal. It is evaluated in memory by Match
// and compiled to SQL by the task repository; both must agree.
type ReadFilter struct {
	// Unrestricted matches every task.
	Unrestricted bool
	// PrincipalID matches tasks the principal created or is assigned to.
	PrincipalID ident.ID
	// IncludeShared also matches tasks whose shared-with list holds PrincipalID.
	IncludeShared bool
	// IncludePublic also matches every public task.
	IncludePublic bool
	// TeamID, when set, matches tasks of that team whose visibility is in TeamVisibilities.
	// A nil TeamVisibilities allows any visibility.
	TeamID           ident.ID
	TeamVisibilities []taskdomain.Visibility
}

// ReadFilterFor returns the listing predicate for p.
func ReadFilterFor(p domain.Principal) ReadFilter {
	if p.IsAdmin() {
		return ReadFilter{Unrestricted: true}
	}
	if p.IsTeamLead() {
		return ReadFilter{
			PrincipalID:   p.ID,
			IncludePublic: true,
			TeamID:        p.TeamID,
		}
	}
	return ReadFilter{
		PrincipalID:      p.ID,
		IncludeShared:    true,
		TeamID:           p.TeamID,
		TeamVisibilities: []taskdomain.Visibility{taskdomain.VisibilityTeam, taskdomain.VisibilityPublic},
	}
}

// Match reports whether t passes the filter. Deletion state is not considered.
func (f ReadFilter) Match(t *taskdomain.Task) bool {
	if f.Unrestricted {
		return true
	}
	if t.IsCreator(f.PrincipalID) || t.IsAssignee(f.PrincipalID) {
		return true
	}
	if f.IncludeShared && t.IsSharedWith(f.PrincipalID) {
		return true
	}
	if f.IncludePublic && t.Visibility == taskdomain.VisibilityPublic {
		return true
	}
	if !f.TeamID.IsZero() && t.InTeam(f.TeamID) {
		return f.TeamVisibilities == nil || f.allowsVisibility(t.Visibility)
	}
	return false
}

func (f ReadFilter) allowsVisibility(v taskdomain.Visibility) bool {
	for _, allowed := range f.TeamVisibilities {
		if allowed == v {
			return true
		}
	}
	return false
}
