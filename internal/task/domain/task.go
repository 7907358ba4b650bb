package domain

import (
	"strings"
	"time"

	"taskflow/backend/internal/platform/ident"
)

// Task is a unit of work owned by its creator. AssignedTo is a non-owning reference.
type Task struct {
	ID          ident.ID
	Title       string
	Description string
	Status      Status
	Priority    Priority
	CreatedBy   ident.ID
	AssignedTo  ident.ID
	TeamID      ident.ID
	Visibility  Visibility
	SharedWith  []ident.ID
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	DeletedBy   ident.ID
}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// ParseStatus returns the status named by s, or StatusTodo when s is empty or unknown.
func ParseStatus(s string) Status {
	if st := Status(strings.ToLower(strings.TrimSpace(s))); st.Valid() {
		return st
	}
	return StatusTodo
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority returns the priority named by s. Anything outside the set falls back to medium.
func ParsePriority(s string) Priority {
	if p := Priority(strings.ToLower(strings.TrimSpace(s))); p.Valid() {
		return p
	}
	return PriorityMedium
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Visibility controls team-wide readability of a task.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityTeam    Visibility = "team"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityTeam, VisibilityPublic:
		return true
	}
	return false
}

// TeamReadable reports whether team-mates without a direct relation may read the task.
func (v Visibility) TeamReadable() bool {
	return v == VisibilityTeam || v == VisibilityPublic
}

func (t *Task) IsDeleted() bool { return t.DeletedAt != nil }

func (t *Task) IsCreator(userID ident.ID) bool { return t.CreatedBy.Equal(userID) }

func (t *Task) IsAssignee(userID ident.ID) bool { return t.AssignedTo.Equal(userID) }

func (t *Task) IsSharedWith(userID ident.ID) bool { return ident.Contains(t.SharedWith, userID) }

// InTeam reports whether the task belongs to teamID. A task without a team is in no team.
func (t *Task) InTeam(teamID ident.ID) bool { return t.TeamID.Equal(teamID) }

// DelegatedToOther reports whether the task is assigned to someone other than its creator.
func (t *Task) DelegatedToOther() bool {
	return !t.AssignedTo.IsZero() && !t.AssignedTo.Equal(t.CreatedBy)
}

// MarkDeleted moves the task from active to deleted.
func (t *Task) MarkDeleted(actorID ident.ID, now time.Time) {
	t.DeletedAt = &now
	t.DeletedBy = actorID
	t.UpdatedAt = now
}

// Restore moves the task back to active. It reports whether anything changed.
func (t *Task) Restore(now time.Time) bool {
	if !t.IsDeleted() {
		return false
	}
	t.DeletedAt = nil
	t.DeletedBy = ""
	t.UpdatedAt = now
	return true
}

// NormalizeSharedWith drops blanks, duplicates and the creator from SharedWith.
func (t *Task) NormalizeSharedWith() {
	out := make([]ident.ID, 0, len(t.SharedWith))
	for _, id := range t.SharedWith {
		if id.IsZero() || t.IsCreator(id) || ident.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	t.SharedWith = out
}
