package handler

import (
	"time"

	invdomain "taskflow/backend/internal/invitation/domain"
	"taskflow/backend/internal/membership/service"
	teamdomain "taskflow/backend/internal/team/domain"
)

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

type CreateTeamResponse struct {
	Team *Team `json:"team"`
}

type GetMyTeamRequest struct{}

// GetMyTeamResponse carries no team when the caller is teamless.
type GetMyTeamResponse struct {
	Team *Team `json:"team,omitempty"`
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type InviteResponse struct {
	Invitation *Invitation `json:"invitation"`
}

type ListMyInvitationsRequest struct{}

type ListMyInvitationsResponse struct {
	Invitations []*Invitation `json:"invitations"`
}

type RespondToInviteRequest struct {
	InvitationID string `json:"invitationId" validate:"required,max=64"`
	Accept       bool   `json:"accept"`
}

type RespondToInviteResponse struct {
	Invitation *Invitation `json:"invitation"`
}

type RemoveMemberRequest struct {
	MemberID string `json:"memberId" validate:"required,max=64"`
}

type RemoveMemberResponse struct{}

type LeaveTeamRequest struct{}

type LeaveTeamResponse struct{}

// Team is the wire form of a team.
type Team struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	LeadID               string    `json:"leadId"`
	MaxMembers           int       `json:"maxMembers"`
	AllowExternalSharing bool      `json:"allowExternalSharing"`
	Members              []*Member `json:"members,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Member is the wire form of one team member. Email and Name are empty when the
// user could not be resolved.
type Member struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email,omitempty"`
	Name     string    `json:"name,omitempty"`
	Role     string    `json:"role"`
	IsLead   bool      `json:"isLead"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Invitation is the wire form of an invitation.
type Invitation struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"teamId"`
	SenderID    string     `json:"senderId"`
	RecipientID string     `json:"recipientId"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

func teamToMessage(t *teamdomain.Team) *Team {
	if t == nil {
		return nil
	}
	return &Team{
		ID:                   t.ID.String(),
		Name:                 t.Name,
		Description:          t.Description,
		LeadID:               t.LeadID.String(),
		MaxMembers:           t.Settings.MaxMembers,
		AllowExternalSharing: t.Settings.AllowExternalSharing,
		CreatedAt:            t.CreatedAt,
	}
}

func teamViewToMessage(v *service.TeamView) *Team {
	if v == nil {
		return nil
	}
	out := teamToMessage(v.Team)
	for _, m := range v.Members {
		msg := &Member{
			UserID:   m.Member.UserID.String(),
			Role:     string(m.Member.Role),
			IsLead:   m.IsLead,
			JoinedAt: m.Member.JoinedAt,
		}
		if m.User != nil {
			msg.Email = m.User.Email
			msg.Name = m.User.Name
		}
		out.Members = append(out.Members, msg)
	}
	return out
}

func invitationToMessage(inv *invdomain.Invitation) *Invitation {
	if inv == nil {
		return nil
	}
	return &Invitation{
		ID:          inv.ID.String(),
		TeamID:      inv.TeamID.String(),
		SenderID:    inv.SenderID.String(),
		RecipientID: inv.RecipientID.String(),
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
		RespondedAt: inv.RespondedAt,
	}
}
