// Package service implements team creation, invitations and membership changes.
//
// Every precondition is checked up front for a precise error, and then enforced
// again by the storage layer (compare-and-swap on the user's team, a unique index
// on pending invitations), so a request that loses a race gets a conflict instead
// of corrupting membership.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	invdomain "taskflow/backend/internal/invitation/domain"
	invrepo "taskflow/backend/internal/invitation/repository"
	"taskflow/backend/internal/membership/domain"
	membershiprepo "taskflow/backend/internal/membership/repository"
	"taskflow/backend/internal/notification"
	"taskflow/backend/internal/platform/apperr"
	"taskflow/backend/internal/platform/ident"
	teamdomain "taskflow/backend/internal/team/domain"
	teamrepo "taskflow/backend/internal/team/repository"
	userdomain "taskflow/backend/internal/user/domain"
	userrepo "taskflow/backend/internal/user/repository"
)

// PrincipalInvalidator drops cached principals after a user's role or team changes.
type PrincipalInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...ident.ID)
}

// Deps are the collaborators of Service. Notifier and Principals may be nil.
type Deps struct {
	Users             userrepo.Repository
	Teams             teamrepo.Repository
	Invitations       invrepo.Repository
	Store             membershiprepo.Repository
	Notifier          notification.Notifier
	Principals        PrincipalInvalidator
	DefaultMaxMembers int
}

// Service is the team membership service.
type Service struct {
	users             userrepo.Repository
	teams             teamrepo.Repository
	invitations       invrepo.Repository
	store             membershiprepo.Repository
	notifier          notification.Notifier
	principals        PrincipalInvalidator
	defaultMaxMembers int
	now               func() time.Time
}

// NewService returns a membership service.
func NewService(d Deps) *Service {
	maxMembers := d.DefaultMaxMembers
	if maxMembers <= 0 {
		maxMembers = teamdomain.DefaultMaxMembers
	}
	return &Service{
		users:             d.Users,
		teams:             d.Teams,
		invitations:       d.Invitations,
		store:             d.Store,
		notifier:          d.Notifier,
		principals:        d.Principals,
		defaultMaxMembers: maxMembers,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// CreateTeamInput is the payload of CreateTeam.
type CreateTeamInput struct {
	Name        string
	Description string
}

// TeamView is a team with its lead and members resolved to users.
type TeamView struct {
	Team    *teamdomain.Team
	Lead    *userdomain.User
	Members []MemberView
}

// MemberView is one resolved member. User is nil if the record vanished concurrently.
type MemberView struct {
	User   *userdomain.User
	Member teamdomain.Member
	IsLead bool
}

// CreateTeam creates a team led by userID. The caller becomes team_lead unless already admin.
func (s *Service) CreateTeam(ctx context.Context, userID ident.ID, in CreateTeamInput) (*teamdomain.Team, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.HasTeam() {
		return nil, apperr.Conflict("user already belongs to a team")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("team name is required")
	}

	now := s.now()
	team := teamdomain.New(ident.New(), name, in.Description, u.ID,
		teamdomain.Settings{MaxMembers: s.defaultMaxMembers}, now)
	lead := userdomain.PromoteOnTeamCreate(*u, team.ID)

	if err := s.store.CreateTeam(ctx, team, lead); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserHasTeam):
			return nil, apperr.Conflict("user already belongs to a team")
		case errors.Is(err, domain.ErrTeamNameTaken):
			return nil, apperr.Conflict("team name %q is already taken", name)
		}
		return nil, fmt.Errorf("membership: create team: %w", err)
	}
	s.invalidate(ctx, u.ID)
	return team, nil
}

// GetMyTeam returns the caller's team with lead and members resolved, or nil when teamless.
func (s *Service) GetMyTeam(ctx context.Context, userID ident.ID) (*TeamView, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasTeam() {
		return nil, nil
	}
	team, err := s.teams.GetByID(ctx, u.TeamID)
	if err != nil {
		return nil, fmt.Errorf("membership: load team: %w", err)
	}
	if team == nil {
		return nil, nil
	}
	users, err := s.users.ListByIDs(ctx, team.MemberIDs())
	if err != nil {
		return nil, fmt.Errorf("membership: load members: %w", err)
	}
	byID := make(map[string]*userdomain.User, len(users))
	for _, mu := range users {
		byID[mu.ID.Normalized()] = mu
	}
	view := &TeamView{Team: team, Lead: byID[team.LeadID.Normalized()]}
	for _, m := range team.Members {
		view.Members = append(view.Members, MemberView{
			User:   byID[m.UserID.Normalized()],
			Member: m,
			IsLead: team.IsLead(m.UserID),
		})
	}
	return view, nil
}

// Invite creates a pending invitation from inviterID's team to the user with recipientEmail.
// Membership does not change until the recipient accepts.
func (s *Service) Invite(ctx context.Context, inviterID ident.ID, recipientEmail string) (*invdomain.Invitation, error) {
	inviter, err := s.loadUser(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter.Role != userdomain.RoleAdmin && inviter.Role != userdomain.RoleTeamLead {
		return nil, apperr.Forbidden("only admins and team leads can invite members")
	}
	if !inviter.HasTeam() {
		return nil, apperr.Validation("you must belong to a team to invite members")
	}
	team, err := s.loadTeam(ctx, inviter.TeamID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.users.GetByEmail(ctx, recipientEmail)
	if err != nil {
		return nil, fmt.Errorf("membership: load recipient: %w", err)
	}
	if recipient == nil {
		return nil, apperr.NotFound("user", strings.TrimSpace(recipientEmail))
	}
	if recipient.ID.Equal(inviter.ID) {
		return nil, apperr.Validation("you cannot invite yourself")
	}
	if recipient.HasTeam() {
		return nil, apperr.Conflict("user already belongs to a team")
	}
	if team.IsFull() {
		return nil, apperr.Conflict("team has reached its limit of %d members", team.Settings.MaxMembers)
	}
	pending, err := s.invitations.HasPending(ctx, recipient.ID, team.ID)
	if err != nil {
		return nil, fmt.Errorf("membership: check pending invitation: %w", err)
	}
	if pending {
		return nil, apperr.Conflict("a pending invitation already exists for this user")
	}

	inv := invdomain.New(ident.New(), team.ID, inviter.ID, recipient.ID, s.now())
	if err := s.invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, invrepo.ErrDuplicatePending) {
			return nil, apperr.Conflict("a pending invitation already exists for this user")
		}
		return nil, fmt.Errorf("membership: create invitation: %w", err)
	}
	s.notify(notification.EventInvitationCreated, recipient.ID, inviter.ID, inv)
	return inv, nil
}

// ListMyInvitations returns the pending invitations addressed to userID, newest first.
func (s *Service) ListMyInvitations(ctx context.Context, userID ident.ID) ([]*invdomain.Invitation, error) {
	invs, err := s.invitations.ListPendingForRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("membership: list invitations: %w", err)
	}
	return invs, nil
}

// RespondToInvite accepts or rejects a pending invitation addressed to userID.
func (s *Service) RespondToInvite(ctx context.Context, userID, invitationID ident.ID, accept bool) (*invdomain.Invitation, error) {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, fmt.Errorf("membership: load invitation: %w", err)
	}
	if inv == nil || !inv.IsFor(userID) {
		return nil, apperr.NotFound("invitation", invitationID.String())
	}
	if inv.Status.IsTerminal() {
		return nil, alreadyProcessed()
	}

	if !accept {
		if err := inv.Reject(s.now()); err != nil {
			return nil, alreadyProcessed()
		}
		if err := s.invitations.Reject(ctx, inv); err != nil {
			if errors.Is(err, invdomain.ErrAlreadyProcessed) {
				return nil, alreadyProcessed()
			}
			return nil, fmt.Errorf("membership: reject invitation: %w", err)
		}
		s.notify(notification.EventInvitationRejected, inv.SenderID, userID, inv)
		return inv, nil
	}

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.HasTeam() {
		return nil, apperr.Conflict("user already belongs to a team")
	}
	team, err := s.loadTeam(ctx, inv.TeamID)
	if err != nil {
		return nil, err
	}
	if team.IsFull() {
		return nil, apperr.Conflict("team has reached its limit of %d members", team.Settings.MaxMembers)
	}

	now := s.now()
	if err := inv.Accept(now); err != nil {
		return nil, alreadyProcessed()
	}
	member := teamdomain.Member{UserID: u.ID, Role: teamdomain.MemberRoleMember, JoinedAt: now}
	if err := s.store.JoinTeam(ctx, inv, member, userdomain.JoinAsMember(*u, team.ID)); err != nil {
		switch {
		case errors.Is(err, invdomain.ErrAlreadyProcessed):
			return nil, alreadyProcessed()
		case errors.Is(err, domain.ErrUserHasTeam):
			return nil, apperr.Conflict("user already belongs to a team")
		case errors.Is(err, domain.ErrTeamFull):
			return nil, apperr.Conflict("team has reached its limit of %d members", team.Settings.MaxMembers)
		case errors.Is(err, domain.ErrTeamNotFound):
			return nil, apperr.NotFound("team", team.ID.String())
		}
		return nil, fmt.Errorf("membership: join team: %w", err)
	}
	s.invalidate(ctx, u.ID)
	s.notify(notification.EventInvitationAccepted, inv.SenderID, userID, inv)
	return inv, nil
}

// RemoveMember removes memberID from the actor's team. The actor must be the team lead or
// the member themself. The lead can never be removed.
func (s *Service) RemoveMember(ctx context.Context, actorID, memberID ident.ID) error {
	actor, err := s.loadUser(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.HasTeam() {
		return apperr.Validation("you are not in a team")
	}
	team, err := s.loadTeam(ctx, actor.TeamID)
	if err != nil {
		return err
	}
	if !team.IsLead(actor.ID) && !actor.ID.Equal(memberID) {
		return apperr.Forbidden("only the team lead can remove other members")
	}
	if team.IsLead(memberID) {
		return apperr.Validation("the team lead cannot be removed from the team")
	}
	if !team.HasMember(memberID) {
		return apperr.NotFound("member", memberID.String())
	}
	member, err := s.loadUser(ctx, memberID)
	if err != nil {
		return err
	}
	return s.removeFromTeam(ctx, team.ID, member)
}

// LeaveTeam removes userID from their team. The lead cannot leave.
func (s *Service) LeaveTeam(ctx context.Context, userID ident.ID) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.HasTeam() {
		return apperr.Validation("you are not in a team")
	}
	team, err := s.loadTeam(ctx, u.TeamID)
	if err != nil {
		return err
	}
	if team.IsLead(u.ID) {
		return apperr.Validation("the team lead cannot leave the team")
	}
	return s.removeFromTeam(ctx, team.ID, u)
}

func (s *Service) removeFromTeam(ctx context.Context, teamID ident.ID, u *userdomain.User) error {
	if err := s.store.RemoveMember(ctx, teamID, userdomain.DemoteOnTeamExit(*u)); err != nil {
		if errors.Is(err, domain.ErrNotMember) {
			return apperr.NotFound("member", u.ID.String())
		}
		return fmt.Errorf("membership: remove member: %w", err)
	}
	s.invalidate(ctx, u.ID)
	return nil
}

func (s *Service) loadUser(ctx context.Context, id ident.ID) (*userdomain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("membership: load user: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user", id.String())
	}
	return u, nil
}

func (s *Service) loadTeam(ctx context.Context, id ident.ID) (*teamdomain.Team, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("membership: load team: %w", err)
	}
	if t == nil {
		return nil, apperr.NotFound("team", id.String())
	}
	return t, nil
}

func (s *Service) invalidate(ctx context.Context, ids ...ident.ID) {
	if s.principals != nil {
		s.principals.Invalidate(ctx, ids...)
	}
}

func (s *Service) notify(typ notification.EventType, recipientID, actorID ident.ID, inv *invdomain.Invitation) {
	if s.notifier == nil {
		return
	}
	notification.NotifyAsync(s.notifier, notification.NewEvent(typ, recipientID, actorID, inv.TeamID, inv.ID, s.now()))
}

func alreadyProcessed() error {
	return apperr.Validation("invitation already processed")
}
