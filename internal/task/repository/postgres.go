package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"taskflow/backend/internal/db"
	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/task/domain"
)

type PostgresRepository struct {
	db      db.DBTX
	typeMap *pgtype.Map
}

// NewPostgresRepository returns a task repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn, typeMap: pgtype.NewMap()}
}

// GetByID returns the task for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id ident.ID) (*domain.Task, error) {
	t, err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id.Normalized()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// List returns live tasks matching q, newest first.
func (r *PostgresRepository) List(ctx context.Context, q ListQuery) ([]*domain.Task, error) {
	query, args := buildListQuery(q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Task
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create persists the task. The task must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, created_by, assigned_to, team_id,
		 visibility, shared_with, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID.Normalized(), t.Title, t.Description, string(t.Status), string(t.Priority),
		t.CreatedBy.Normalized(), nullID(t.AssignedTo), nullID(t.TeamID), string(t.Visibility),
		ident.Strings(t.SharedWith), nullTime(t.DueDate), t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = $2, description = $3, status = $4, priority = $5, assigned_to = $6,
		 team_id = $7, visibility = $8, shared_with = $9, due_date = $10, updated_at = $11
		 WHERE id = $1 AND deleted_at IS NULL`,
		t.ID.Normalized(), t.Title, t.Description, string(t.Status), string(t.Priority),
		nullID(t.AssignedTo), nullID(t.TeamID), string(t.Visibility), ident.Strings(t.SharedWith),
		nullTime(t.DueDate), t.UpdatedAt,
	)
	return affectedOne(res, err)
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id, actorID ident.ID) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET deleted_at = $2, deleted_by = $3, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id.Normalized(), now, actorID.Normalized())
	return affectedOne(res, err)
}

func (r *PostgresRepository) Restore(ctx context.Context, id ident.ID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET deleted_at = NULL, deleted_by = NULL, updated_at = $2 WHERE id = $1 AND deleted_at IS NOT NULL`,
		id.Normalized(), time.Now().UTC())
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id ident.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id.Normalized())
	return affectedOne(res, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scan(s rowScanner) (*domain.Task, error) {
	var (
		t                         domain.Task
		id, createdBy             string
		status, priority, vis     string
		assignedTo, teamID, delBy sql.NullString
		sharedWith                []string
		dueDate, deletedAt        sql.NullTime
	)
	err := s.Scan(&id, &t.Title, &t.Description, &status, &priority, &createdBy, &assignedTo, &teamID,
		&vis, r.typeMap.SQLScanner(&sharedWith), &dueDate, &t.CreatedAt, &t.UpdatedAt, &deletedAt, &delBy)
	if err != nil {
		return nil, err
	}
	t.ID = ident.ID(id)
	t.CreatedBy = ident.ID(createdBy)
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	t.Visibility = domain.Visibility(vis)
	t.AssignedTo = ident.ID(assignedTo.String)
	t.TeamID = ident.ID(teamID.String)
	t.DeletedBy = ident.ID(delBy.String)
	t.SharedWith = ident.FromStrings(sharedWith)
	t.DueDate = timePtr(dueDate)
	t.DeletedAt = timePtr(deletedAt)
	return &t, nil
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullID(id ident.ID) sql.NullString {
	return sql.NullString{String: id.Normalized(), Valid: !id.IsZero()}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
