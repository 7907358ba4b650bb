package handler

import (
	"time"

	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/task/domain"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=5000"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty" validate:"max=64"`
	TeamID      string     `json:"teamId,omitempty" validate:"max=64"`
	Visibility  string     `json:"visibility,omitempty" validate:"omitempty,oneof=private team public"`
	SharedWith  []string   `json:"sharedWith,omitempty" validate:"max=100,dive,max=64"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task"`
}

type GetTaskRequest struct {
	ID             string `json:"id" validate:"required,max=64"`
	IncludeDeleted bool   `json:"includeDeleted,omitempty"`
}

type GetTaskResponse struct {
	Task *Task `json:"task"`
}

// UpdateTaskRequest is a partial update; omitted fields are left unchanged.
type UpdateTaskRequest struct {
	ID           string     `json:"id" validate:"required,max=64"`
	Title        *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status       *string    `json:"status,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	AssignedTo   *string    `json:"assignedTo,omitempty" validate:"omitempty,max=64"`
	Visibility   *string    `json:"visibility,omitempty" validate:"omitempty,oneof=private team public"`
	SharedWith   *[]string  `json:"sharedWith,omitempty" validate:"omitempty,max=100"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClearDueDate bool       `json:"clearDueDate,omitempty"`
}

type UpdateTaskResponse struct {
	Task *Task `json:"task"`
}

type ListTasksRequest struct {
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Search    string `json:"search,omitempty" validate:"max=200"`
	PageSize  int    `json:"pageSize,omitempty" validate:"gte=0"`
	PageToken string `json:"pageToken,omitempty" validate:"max=256"`
}

type ListTasksResponse struct {
	Tasks         []*Task `json:"tasks"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

type DeleteTaskRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}

type DeleteTaskResponse struct{}

type RestoreTaskRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}

type RestoreTaskResponse struct {
	Task *Task `json:"task"`
}

type PermanentDeleteTaskRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}

type PermanentDeleteTaskResponse struct{}

// Task is the wire form of a task.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedBy   string     `json:"createdBy"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	TeamID      string     `json:"teamId,omitempty"`
	Visibility  string     `json:"visibility"`
	SharedWith  []string   `json:"sharedWith,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	DeletedBy   string     `json:"deletedBy,omitempty"`
}

func taskToMessage(t *domain.Task) *Task {
	if t == nil {
		return nil
	}
	out := &Task{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedBy:   t.CreatedBy.String(),
		AssignedTo:  t.AssignedTo.String(),
		TeamID:      t.TeamID.String(),
		Visibility:  string(t.Visibility),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   t.DeletedAt,
		DeletedBy:   t.DeletedBy.String(),
	}
	for _, id := range t.SharedWith {
		out.SharedWith = append(out.SharedWith, id.String())
	}
	return out
}

func optionalID(s *string) *ident.ID {
	if s == nil {
		return nil
	}
	id := ident.Parse(*s)
	return &id
}

func optionalVisibility(s *string) *domain.Visibility {
	if s == nil {
		return nil
	}
	v := domain.Visibility(*s)
	return &v
}

func optionalIDs(ss *[]string) *[]ident.ID {
	if ss == nil {
		return nil
	}
	ids := ident.FromStrings(*ss)
	return &ids
}
