package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"taskflow/backend/internal/db"
	invdomain "taskflow/backend/internal/invitation/domain"
	invrepo "taskflow/backend/internal/invitation/repository"
	"taskflow/backend/internal/membership/domain"
	"taskflow/backend/internal/platform/ident"
	teamdomain "taskflow/backend/internal/team/domain"
	userdomain "taskflow/backend/internal/user/domain"
)

const (
	teamNameIndex    = "teams_name_live_idx"
	oneTeamPerMember = "team_members_user_id_key"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that runs each write in its own transaction.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

func (r *PostgresRepository) CreateTeam(ctx context.Context, team *teamdomain.Team, lead userdomain.User) error {
	if err := team.Validate(); err != nil {
		return err
	}
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO teams (id, name, description, lead_id, max_members, allow_external_sharing, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			team.ID.Normalized(), team.Name, team.Description, team.LeadID.Normalized(),
			team.Settings.MaxMembers, team.Settings.AllowExternalSharing, team.CreatedAt, team.UpdatedAt,
		)
		if db.IsUniqueViolation(err, teamNameIndex) {
			return domain.ErrTeamNameTaken
		}
		if err != nil {
			return err
		}
		if err := assignTeam(ctx, tx, lead); err != nil {
			return err
		}
		for _, m := range team.Members {
			if err := insertMember(ctx, tx, team.ID, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) JoinTeam(ctx context.Context, inv *invdomain.Invitation, member teamdomain.Member, user userdomain.User) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var maxMembers, count int
		err := tx.QueryRowContext(ctx,
			`SELECT max_members FROM teams WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			inv.TeamID.Normalized(),
		).Scan(&maxMembers)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTeamNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM team_members WHERE team_id = $1`, inv.TeamID.Normalized(),
		).Scan(&count); err != nil {
			return err
		}
		if count >= maxMembers {
			return domain.ErrTeamFull
		}
		if err := invrepo.Transition(ctx, tx, inv, invdomain.StatusAccepted); err != nil {
			return err
		}
		if err := assignTeam(ctx, tx, user); err != nil {
			return err
		}
		return insertMember(ctx, tx, inv.TeamID, member)
	})
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, teamID ident.ID, user userdomain.User) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
			teamID.Normalized(), user.ID.Normalized())
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrNotMember
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET team_id = NULL, team_role = NULL, role = $3, updated_at = $4
			 WHERE id = $1 AND team_id = $2`,
			user.ID.Normalized(), teamID.Normalized(), string(user.Role), time.Now().UTC())
		return err
	})
}

// assignTeam sets the user's team only if they have none, so two concurrent joins cannot both win.
func assignTeam(ctx context.Context, tx *sql.Tx, u userdomain.User) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET team_id = $2, team_role = $3, role = $4, updated_at = $5
		 WHERE id = $1 AND team_id IS NULL`,
		u.ID.Normalized(), u.TeamID.Normalized(), string(u.TeamRole), string(u.Role), time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserHasTeam
	}
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, teamID ident.ID, m teamdomain.Member) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`,
		teamID.Normalized(), m.UserID.Normalized(), string(m.Role), m.JoinedAt)
	if db.IsUniqueViolation(err, oneTeamPerMember) {
		return domain.ErrUserHasTeam
	}
	return err
}
