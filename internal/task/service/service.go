// Package service implements the task lifecycle: creation with assignment rules,
// authorized reads and updates, soft deletion, restore and permanent removal.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/backend/internal/platform/apperr"
	"taskflow/backend/internal/platform/ident"
	policydomain "taskflow/backend/internal/policy/domain"
	"taskflow/backend/internal/policy/engine"
	"taskflow/backend/internal/task/domain"
	"taskflow/backend/internal/task/repository"
	userdomain "taskflow/backend/internal/user/domain"
)

// UserReader resolves assignees.
type UserReader interface {
	GetByID(ctx context.Context, id ident.ID) (*userdomain.User, error)
}

// Service is the task lifecycle service.
type Service struct {
	tasks     repository.Repository
	users     UserReader
	evaluator engine.Evaluator
	now       func() time.Time
}

// NewService returns a task service. A nil evaluator uses the in-process policy engine.
func NewService(tasks repository.Repository, users UserReader, evaluator engine.Evaluator) *Service {
	if evaluator == nil {
		evaluator = engine.Native{}
	}
	return &Service{
		tasks:     tasks,
		users:     users,
		evaluator: evaluator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateTaskInput is the payload of CreateTask. Status and Priority are free-form and
// fall back to todo and medium.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  ident.ID
	TeamID      ident.ID
	Visibility  domain.Visibility
	SharedWith  []ident.ID
	DueDate     *time.Time
}

// UpdateTaskInput is a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *ident.ID
	Visibility  *domain.Visibility
	SharedWith  *[]ident.ID
	DueDate     *time.Time
	// ClearDueDate removes the due date; it wins over DueDate.
	ClearDueDate bool
}

// ListTasksInput narrows a listing. The caller's read filter is always applied first.
type ListTasksInput struct {
	Status    string
	Priority  string
	Search    string
	PageSize  int
	PageToken string
}

// ListTasksResult is one page of tasks. NextPageToken is empty on the last page.
type ListTasksResult struct {
	Tasks         []*domain.Task
	NextPageToken string
}

// CreateTask persists a task owned by creator.
func (s *Service) CreateTask(ctx context.Context, creator policydomain.Principal, in CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	now := s.now()
	t := &domain.Task{
		ID:          ident.New(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.ParseStatus(in.Status),
		Priority:    domain.ParsePriority(in.Priority),
		CreatedBy:   creator.ID,
		AssignedTo:  ident.Parse(in.AssignedTo.String()),
		TeamID:      ident.Parse(in.TeamID.String()),
		Visibility:  in.Visibility,
		SharedWith:  in.SharedWith,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.TeamID.IsZero() && creator.HasTeam() {
		t.TeamID = creator.TeamID
		if t.Visibility == "" {
			t.Visibility = domain.VisibilityTeam
		}
	}
	if t.Visibility == "" {
		t.Visibility = domain.VisibilityPrivate
	}
	if !t.Visibility.Valid() {
		return nil, apperr.Validation("unknown visibility %q", t.Visibility)
	}
	if !t.TeamID.IsZero() && !creator.IsAdmin() && !t.TeamID.Equal(creator.TeamID) {
		return nil, apperr.Forbidden("tasks can only be created in your own team")
	}
	if err := s.checkAssignment(ctx, creator, t, true); err != nil {
		return nil, err
	}
	t.NormalizeSharedWith()

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("task: create: %w", err)
	}
	return t, nil
}

// checkAssignment applies the delegation rules to t as set up by actor. Private tasks are
// never delegated; only admins and team leads assign others, and only admins across teams.
// When assigneeChanged is false only the visibility rule is checked.
func (s *Service) checkAssignment(ctx context.Context, actor policydomain.Principal, t *domain.Task, assigneeChanged bool) error {
	if !t.DelegatedToOther() {
		return nil
	}
	if t.Visibility == domain.VisibilityPrivate {
		return apperr.Validation("private tasks cannot be assigned to another user")
	}
	if !assigneeChanged {
		return nil
	}
	if !actor.CanAssignOthers() {
		return apperr.Forbidden("only admins and team leads can assign tasks to others")
	}
	assignee, err := s.users.GetByID(ctx, t.AssignedTo)
	if err != nil {
		return fmt.Errorf("task: load assignee: %w", err)
	}
	if assignee == nil {
		return apperr.NotFound("user", t.AssignedTo.String())
	}
	if actor.IsAdmin() {
		return nil
	}
	if !actor.HasTeam() || !assignee.TeamID.Equal(actor.TeamID) {
		return apperr.Forbidden("tasks can only be assigned within your team")
	}
	return nil
}

// GetByID returns the task. A deleted task is NotFound unless includeDeleted is set.
func (s *Service) GetByID(ctx context.Context, id ident.ID, includeDeleted bool) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task: get: %w", err)
	}
	if t == nil || (t.IsDeleted() && !includeDeleted) {
		return nil, apperr.NotFound("task", id.String())
	}
	return t, nil
}

// GetTask returns the task if p may view it.
func (s *Service) GetTask(ctx context.Context, p policydomain.Principal, id ident.ID, includeDeleted bool) (*domain.Task, error) {
	t, err := s.GetByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	if err := s.ensure(ctx, policydomain.ActionView, p, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask applies in to a live task p may update.
func (s *Service) UpdateTask(ctx context.Context, p policydomain.Principal, id ident.ID, in UpdateTaskInput) (*domain.Task, error) {
	t, err := s.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.ensure(ctx, policydomain.ActionUpdate, p, t); err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		t.Status = domain.ParseStatus(*in.Status)
	}
	if in.Priority != nil {
		t.Priority = domain.ParsePriority(*in.Priority)
	}
	assigneeChanged := false
	if in.AssignedTo != nil {
		next := ident.Parse(in.AssignedTo.String())
		assigneeChanged = !next.Equal(t.AssignedTo) && !(next.IsZero() && t.AssignedTo.IsZero())
		t.AssignedTo = next
	}
	visibilityChanged := false
	if in.Visibility != nil {
		if !in.Visibility.Valid() {
			return nil, apperr.Validation("unknown visibility %q", *in.Visibility)
		}
		visibilityChanged = *in.Visibility != t.Visibility
		t.Visibility = *in.Visibility
	}
	if in.SharedWith != nil {
		t.SharedWith = *in.SharedWith
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.ClearDueDate {
		t.DueDate = nil
	}
	if assigneeChanged || visibilityChanged {
		if err := s.checkAssignment(ctx, p, t, assigneeChanged); err != nil {
			return nil, err
		}
	}
	t.NormalizeSharedWith()
	t.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("task", id.String())
		}
		return nil, fmt.Errorf("task: update: %w", err)
	}
	return t, nil
}

// ListTasks returns the live tasks p may read, newest first.
func (s *Service) ListTasks(ctx context.Context, p policydomain.Principal, in ListTasksInput) (*ListTasksResult, error) {
	offset, err := decodePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}
	q := repository.ListQuery{
		Filter: engine.ReadFilterFor(p),
		Search: strings.TrimSpace(in.Search),
		Offset: offset,
	}
	if in.Status != "" {
		st := domain.Status(strings.ToLower(strings.TrimSpace(in.Status)))
		if !st.Valid() {
			return nil, apperr.Validation("unknown status filter %q", in.Status)
		}
		q.Status = st
	}
	if in.Priority != "" {
		pr := domain.Priority(strings.ToLower(strings.TrimSpace(in.Priority)))
		if !pr.Valid() {
			return nil, apperr.Validation("unknown priority filter %q", in.Priority)
		}
		q.Priority = pr
	}
	pageSize := normalizePageSize(in.PageSize)
	q.Limit = pageSize + 1

	tasks, err := s.tasks.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("task: list: %w", err)
	}
	res := &ListTasksResult{Tasks: tasks}
	if len(tasks) > pageSize {
		res.Tasks = tasks[:pageSize]
		res.NextPageToken = encodePageToken(offset + pageSize)
	}
	return res, nil
}

// SoftDelete marks a live task deleted by actorID. Authorization is the caller's job.
func (s *Service) SoftDelete(ctx context.Context, taskID, actorID ident.ID) error {
	if err := s.tasks.SoftDelete(ctx, taskID, actorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("task", taskID.String())
		}
		return fmt.Errorf("task: soft delete: %w", err)
	}
	return nil
}

// DeleteTask soft-deletes a live task p may delete.
func (s *Service) DeleteTask(ctx context.Context, p policydomain.Principal, id ident.ID) error {
	t, err := s.GetByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.ensure(ctx, policydomain.ActionDelete, p, t); err != nil {
		return err
	}
	return s.SoftDelete(ctx, t.ID, p.ID)
}

// Restore clears the deletion marker of taskID. Restoring a live task is a no-op.
func (s *Service) Restore(ctx context.Context, taskID ident.ID) error {
	if err := s.tasks.Restore(ctx, taskID); err != nil {
		return fmt.Errorf("task: restore: %w", err)
	}
	return nil
}

// RestoreTask restores a task p holds delete rights on and returns it active.
func (s *Service) RestoreTask(ctx context.Context, p policydomain.Principal, id ident.ID) (*domain.Task, error) {
	t, err := s.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.ensure(ctx, policydomain.ActionDelete, p, t); err != nil {
		return nil, err
	}
	if err := s.Restore(ctx, t.ID); err != nil {
		return nil, err
	}
	t.Restore(s.now())
	return t, nil
}

// PermanentDelete removes a task, live or deleted, that p may delete.
func (s *Service) PermanentDelete(ctx context.Context, p policydomain.Principal, id ident.ID) error {
	t, err := s.GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	if err := s.ensure(ctx, policydomain.ActionDelete, p, t); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("task", id.String())
		}
		return fmt.Errorf("task: delete: %w", err)
	}
	return nil
}

func (s *Service) ensure(ctx context.Context, action policydomain.Action, p policydomain.Principal, t *domain.Task) error {
	ok, err := s.evaluator.Allowed(ctx, action, p, t)
	if err != nil {
		return fmt.Errorf("task: evaluate %s: %w", action, err)
	}
	if !ok {
		return apperr.Authorization(string(action), t.ID.String())
	}
	return nil
}
