package repository

import (
	"context"
	"database/sql"
	"errors"

	"taskflow/backend/internal/db"
	"taskflow/backend/internal/invitation/domain"
	"taskflow/backend/internal/platform/ident"
)

// onePendingIndex is the partial unique index holding at most one pending invitation per pair.
const onePendingIndex = "invitations_one_pending_idx"

const invitationColumns = `id, team_id, sender_id, recipient_id, status, created_at, responded_at`

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an invitation repository that uses the given db for persistence.
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// GetByID returns the invitation for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id ident.ID) (*domain.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id.Normalized()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

func (r *PostgresRepository) HasPending(ctx context.Context, recipientID, teamID ident.ID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invitations WHERE recipient_id = $1 AND team_id = $2 AND status = 'pending')`,
		recipientID.Normalized(), teamID.Normalized(),
	).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) ListPendingForRecipient(ctx context.Context, recipientID ident.ID) ([]*domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE recipient_id = $1 AND status = 'pending' ORDER BY created_at DESC, id`,
		recipientID.Normalized())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Create inserts the invitation. The partial unique index turns a lost race into ErrDuplicatePending.
func (r *PostgresRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, team_id, sender_id, recipient_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		inv.ID.Normalized(), inv.TeamID.Normalized(), inv.SenderID.Normalized(),
		inv.RecipientID.Normalized(), string(inv.Status), inv.CreatedAt,
	)
	if db.IsUniqueViolation(err, onePendingIndex) {
		return ErrDuplicatePending
	}
	return err
}

// Reject applies the pending→rejected transition as a compare-and-swap on the stored status.
func (r *PostgresRepository) Reject(ctx context.Context, inv *domain.Invitation) error {
	return Transition(ctx, r.db, inv, domain.StatusRejected)
}

// Transition moves the stored invitation from pending to inv.Status. It is exported for the
// membership repository, which accepts invitations inside its own transaction.
func Transition(ctx context.Context, conn db.DBTX, inv *domain.Invitation, to domain.Status) error {
	if !domain.CanTransition(domain.StatusPending, to) {
		return domain.ErrAlreadyProcessed
	}
	res, err := conn.ExecContext(ctx,
		`UPDATE invitations SET status = $2, responded_at = $3 WHERE id = $1 AND status = 'pending'`,
		inv.ID.Normalized(), string(to), inv.RespondedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(s rowScanner) (*domain.Invitation, error) {
	var inv domain.Invitation
	var id, teamID, senderID, recipientID, st string
	var respondedAt sql.NullTime
	if err := s.Scan(&id, &teamID, &senderID, &recipientID, &st, &inv.CreatedAt, &respondedAt); err != nil {
		return nil, err
	}
	inv.ID = ident.ID(id)
	inv.TeamID = ident.ID(teamID)
	inv.SenderID = ident.ID(senderID)
	inv.RecipientID = ident.ID(recipientID)
	inv.Status = domain.Status(st)
	if respondedAt.Valid {
		t := respondedAt.Time
		inv.RespondedAt = &t
	}
	return &inv, nil
}
