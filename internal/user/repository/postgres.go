package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"taskflow/backend/internal/db"
	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/user/domain"
)

const userColumns = `id, email, name, role, team_id, team_role, created_at, updated_at`

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id ident.ID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.Normalized())
	return scanOptional(row)
}

// GetByEmail returns the user with the given email (case-insensitive), or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	return scanOptional(row)
}

// ListByIDs returns the users whose id is in ids, in no particular order. Unknown ids are skipped.
func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []ident.ID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ident.Strings(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := ScanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, role, team_id, team_role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID.Normalized(), u.Email, u.Name, string(u.Role),
		nullID(u.TeamID), nullString(string(u.TeamRole)), u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// UpdateProfile updates the existing user record. Missing users are not an error.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $2, name = $3, role = $4, updated_at = $5 WHERE id = $1`,
		u.ID.Normalized(), u.Email, u.Name, string(u.Role), time.Now().UTC(),
	)
	return err
}

// RowScanner is implemented by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanUser reads one row selected with the standard user column list.
func ScanUser(s RowScanner) (*domain.User, error) {
	var (
		u        domain.User
		id       string
		role     string
		teamID   sql.NullString
		teamRole sql.NullString
	)
	if err := s.Scan(&id, &u.Email, &u.Name, &role, &teamID, &teamRole, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = ident.ID(id)
	u.Role = domain.Role(role)
	u.TeamID = ident.ID(teamID.String)
	u.TeamRole = domain.TeamRole(teamRole.String)
	return &u, nil
}

func scanOptional(row *sql.Row) (*domain.User, error) {
	u, err := ScanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func nullID(id ident.ID) sql.NullString {
	return sql.NullString{String: id.Normalized(), Valid: !id.IsZero()}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
