package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	invdomain "taskflow/backend/internal/invitation/domain"
	invrepo "taskflow/backend/internal/invitation/repository"
	"taskflow/backend/internal/membership/domain"
	"taskflow/backend/internal/platform/ident"
	teamdomain "taskflow/backend/internal/team/domain"
	userdomain "taskflow/backend/internal/user/domain"
)

// memDB backs the in-memory repositories below with the same atomicity and
// compare-and-swap rules the Postgres repositories enforce.
type memDB struct {
	mu          sync.Mutex
	users       map[string]*userdomain.User
	teams       map[string]*teamdomain.Team
	invitations map[string]*invdomain.Invitation

	// writeGate, when set, holds every write until all expected writers arrive.
	writeGate *sync.WaitGroup
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[string]*userdomain.User{},
		teams:       map[string]*teamdomain.Team{},
		invitations: map[string]*invdomain.Invitation{},
	}
}

func (db *memDB) addUser(id, email string, role userdomain.Role) *userdomain.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &userdomain.User{ID: ident.ID(id), Email: email, Name: id, Role: role}
	db.users[u.ID.Normalized()] = u
	return u
}

func (db *memDB) user(id ident.ID) *userdomain.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *db.users[id.Normalized()]
	return &cp
}

// holdWrites makes the next n writes wait for each other before touching state.
func (db *memDB) holdWrites(n int) {
	db.writeGate = &sync.WaitGroup{}
	db.writeGate.Add(n)
}

func (db *memDB) arrive() {
	if db.writeGate != nil {
		db.writeGate.Done()
		db.writeGate.Wait()
	}
}

func (db *memDB) team(id ident.ID) *teamdomain.Team {
	db.mu.Lock()
	defer db.mu.Unlock()
	return cloneTeam(db.teams[id.Normalized()])
}

func cloneTeam(t *teamdomain.Team) *teamdomain.Team {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Members = append([]teamdomain.Member(nil), t.Members...)
	return &cp
}

type memUsers struct{ db *memDB }

func (r memUsers) GetByID(_ context.Context, id ident.ID) (*userdomain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id.Normalized()]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*userdomain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memUsers) ListByIDs(_ context.Context, ids []ident.ID) ([]*userdomain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*userdomain.User
	for _, id := range ids {
		if u, ok := r.db.users[id.Normalized()]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memUsers) Create(_ context.Context, u *userdomain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *u
	r.db.users[u.ID.Normalized()] = &cp
	return nil
}

func (r memUsers) UpdateProfile(_ context.Context, u *userdomain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.users[u.ID.Normalized()]
	if !ok {
		return errors.New("user not found")
	}
	cur.Name, cur.Email, cur.Role = u.Name, u.Email, u.Role
	return nil
}

type memTeams struct{ db *memDB }

func (r memTeams) GetByID(_ context.Context, id ident.ID) (*teamdomain.Team, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.teams[id.Normalized()]
	if !ok || t.DeletedAt != nil {
		return nil, nil
	}
	return cloneTeam(t), nil
}

type memInvitations struct{ db *memDB }

func (r memInvitations) GetByID(_ context.Context, id ident.ID) (*invdomain.Invitation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv, ok := r.db.invitations[id.Normalized()]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r memInvitations) HasPending(_ context.Context, recipientID, teamID ident.ID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.pendingLocked(recipientID, teamID), nil
}

func (db *memDB) pendingLocked(recipientID, teamID ident.ID) bool {
	for _, inv := range db.invitations {
		if inv.Status == invdomain.StatusPending && inv.RecipientID.Equal(recipientID) && inv.TeamID.Equal(teamID) {
			return true
		}
	}
	return false
}

func (r memInvitations) ListPendingForRecipient(_ context.Context, recipientID ident.ID) ([]*invdomain.Invitation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*invdomain.Invitation
	for _, inv := range r.db.invitations {
		if inv.Status == invdomain.StatusPending && inv.RecipientID.Equal(recipientID) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memInvitations) Create(_ context.Context, inv *invdomain.Invitation) error {
	r.db.arrive()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.pendingLocked(inv.RecipientID, inv.TeamID) {
		return invrepo.ErrDuplicatePending
	}
	cp := *inv
	r.db.invitations[inv.ID.Normalized()] = &cp
	return nil
}

func (r memInvitations) Reject(_ context.Context, inv *invdomain.Invitation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.transitionLocked(inv, invdomain.StatusRejected)
}

func (db *memDB) transitionLocked(inv *invdomain.Invitation, to invdomain.Status) error {
	cur, ok := db.invitations[inv.ID.Normalized()]
	if !ok || cur.Status != invdomain.StatusPending {
		return invdomain.ErrAlreadyProcessed
	}
	cur.Status = to
	cur.RespondedAt = inv.RespondedAt
	return nil
}

type memMembership struct{ db *memDB }

func (r memMembership) CreateTeam(_ context.Context, team *teamdomain.Team, lead userdomain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.teams {
		if t.DeletedAt == nil && strings.EqualFold(t.Name, team.Name) {
			return domain.ErrTeamNameTaken
		}
	}
	cur := r.db.users[lead.ID.Normalized()]
	if cur.HasTeam() {
		return domain.ErrUserHasTeam
	}
	r.db.teams[team.ID.Normalized()] = cloneTeam(team)
	cp := lead
	r.db.users[lead.ID.Normalized()] = &cp
	return nil
}

func (r memMembership) JoinTeam(_ context.Context, inv *invdomain.Invitation, member teamdomain.Member, user userdomain.User) error {
	r.db.arrive()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.teams[inv.TeamID.Normalized()]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTeamNotFound
	}
	if t.IsFull() {
		return domain.ErrTeamFull
	}
	cur := r.db.users[user.ID.Normalized()]
	if cur.HasTeam() {
		return domain.ErrUserHasTeam
	}
	if err := r.db.transitionLocked(inv, invdomain.StatusAccepted); err != nil {
		return err
	}
	t.Members = append(t.Members, member)
	cp := user
	r.db.users[user.ID.Normalized()] = &cp
	return nil
}

func (r memMembership) RemoveMember(_ context.Context, teamID ident.ID, user userdomain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.teams[teamID.Normalized()]
	if !ok {
		return domain.ErrNotMember
	}
	idx := -1
	for i, m := range t.Members {
		if m.UserID.Equal(user.ID) {
			idx = i
		}
	}
	if idx < 0 {
		return domain.ErrNotMember
	}
	t.Members = append(t.Members[:idx], t.Members[idx+1:]...)
	cp := user
	r.db.users[user.ID.Normalized()] = &cp
	return nil
}

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []ident.ID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, ids ...ident.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, ids...)
}

func (r *recordingInvalidator) has(id ident.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ident.Contains(r.ids, id)
}

func newTestService(db *memDB, inv *recordingInvalidator, maxMembers int) *Service {
	s := NewService(Deps{
		Users:             memUsers{db},
		Teams:             memTeams{db},
		Invitations:       memInvitations{db},
		Store:             memMembership{db},
		Principals:        inv,
		DefaultMaxMembers: maxMembers,
	})
	var mu sync.Mutex
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}
