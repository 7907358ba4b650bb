package repository

import (
	"context"
	"database/sql"
	"errors"

	"taskflow/backend/internal/db"
	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/team/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a team repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// GetByID returns the team for id with members ordered by join time, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id ident.ID) (*domain.Team, error) {
	var (
		t      domain.Team
		teamID string
		leadID string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, lead_id, max_members, allow_external_sharing, created_at, updated_at
		 FROM teams WHERE id = $1 AND deleted_at IS NULL`, id.Normalized(),
	).Scan(&teamID, &t.Name, &t.Description, &leadID, &t.Settings.MaxMembers,
		&t.Settings.AllowExternalSharing, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.ID = ident.ID(teamID)
	t.LeadID = ident.ID(leadID)

	members, err := r.listMembers(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Members = members
	return &t, nil
}

func (r *PostgresRepository) listMembers(ctx context.Context, teamID ident.ID) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, role, joined_at FROM team_members WHERE team_id = $1 ORDER BY joined_at, user_id`,
		teamID.Normalized())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Member
	for rows.Next() {
		var (
			m      domain.Member
			userID string
			role   string
		)
		if err := rows.Scan(&userID, &role, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.UserID = ident.ID(userID)
		m.Role = domain.MemberRole(role)
		out = append(out, m)
	}
	return out, rows.Err()
}
