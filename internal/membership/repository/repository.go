package repository

import (
	"context"

	invdomain "taskflow/backend/internal/invitation/domain"
	"taskflow/backend/internal/platform/ident"
	teamdomain "taskflow/backend/internal/team/domain"
	userdomain "taskflow/backend/internal/user/domain"
)

// Repository performs the multi-record membership writes. Each method is atomic: either every
// record changes or none does. Users passed in already carry their post-transition role and team.
type Repository interface {
	// CreateTeam inserts team, its lead member row, and assigns lead to it.
	// Returns domain.ErrUserHasTeam if lead joined a team concurrently, domain.ErrTeamNameTaken on a name clash.
	CreateTeam(ctx context.Context, team *teamdomain.Team, lead userdomain.User) error
	// JoinTeam accepts inv and adds user to its team.
	// Returns invdomain.ErrAlreadyProcessed, domain.ErrUserHasTeam, domain.ErrTeamFull or domain.ErrTeamNotFound.
	JoinTeam(ctx context.Context, inv *invdomain.Invitation, member teamdomain.Member, user userdomain.User) error
	// RemoveMember deletes user's member row in teamID and clears their team.
	// Returns domain.ErrNotMember if the user is not in that team.
	RemoveMember(ctx context.Context, teamID ident.ID, user userdomain.User) error
}
