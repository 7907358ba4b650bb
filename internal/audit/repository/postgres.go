package repository

import (
	"context"
	"database/sql"

	"taskflow/backend/internal/audit/domain"
	"taskflow/backend/internal/db"
	"taskflow/backend/internal/platform/ident"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an audit repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Create persists the entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, team_id, user_id, action, resource, code, ip, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID.Normalized(), nullID(e.TeamID), nullID(e.UserID), e.Action, e.Resource, e.Code, e.IP, e.CreatedAt,
	)
	return err
}

func nullID(id ident.ID) sql.NullString {
	return sql.NullString{String: id.Normalized(), Valid: !id.IsZero()}
}
