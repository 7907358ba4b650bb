package domain

import (
	"errors"
	"strings"
	"time"

	"taskflow/backend/internal/platform/ident"
)

// DefaultMaxMembers is used when a team is created without explicit settings.
const DefaultMaxMembers = 50

// Team groups users under exactly one lead. The lead is always listed in Members.
type Team struct {
	ID          ident.ID
	Name        string
	Description string
	LeadID      ident.ID
	Members     []Member
	Settings    Settings
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Member is one entry of a team's member list.
type Member struct {
	UserID   ident.ID
	Role     MemberRole
	JoinedAt time.Time
}

// MemberRole is the role a user holds within the team's member list.
type MemberRole string

const (
	MemberRoleMember MemberRole = "member"
	MemberRoleViewer MemberRole = "viewer"
)

// Settings are per-team limits and sharing flags.
type Settings struct {
	MaxMembers           int
	AllowExternalSharing bool
}

// New returns a team led by leadID whose member list holds only the lead.
func New(id ident.ID, name, description string, leadID ident.ID, settings Settings, now time.Time) *Team {
	if settings.MaxMembers <= 0 {
		settings.MaxMembers = DefaultMaxMembers
	}
	return &Team{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		LeadID:      leadID,
		Members:     []Member{{UserID: leadID, Role: MemberRoleMember, JoinedAt: now}},
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the team for persistence.
func (t *Team) Validate() error {
	if t.Name == "" {
		return errors.New("team name is required")
	}
	if t.LeadID.IsZero() {
		return errors.New("team lead is required")
	}
	if !t.HasMember(t.LeadID) {
		return errors.New("team lead must be a member")
	}
	return nil
}

// IsLead reports whether userID leads the team.
func (t *Team) IsLead(userID ident.ID) bool {
	return t.LeadID.Equal(userID)
}

// HasMember reports whether userID is in the member list.
func (t *Team) HasMember(userID ident.ID) bool {
	for _, m := range t.Members {
		if m.UserID.Equal(userID) {
			return true
		}
	}
	return false
}

// IsFull reports whether the member list has reached MaxMembers.
func (t *Team) IsFull() bool {
	return t.Settings.MaxMembers > 0 && len(t.Members) >= t.Settings.MaxMembers
}

// MemberIDs returns the user ids of every member, lead included.
func (t *Team) MemberIDs() []ident.ID {
	out := make([]ident.ID, 0, len(t.Members))
	for _, m := range t.Members {
		out = append(out, m.UserID)
	}
	return out
}
