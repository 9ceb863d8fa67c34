package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvitationRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewInvitationRepository(pool *pgxpool.Pool, logger *slog.Logger) *InvitationRepository {
	return &InvitationRepository{pool: pool, logger: logger.With("component", "invitation_repo")}
}

func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	query := `
		INSERT INTO invitations (code, inviter_id, invitee_email, message, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, code, inviter_id, invitee_email, message, status, created_at, expires_at`

	row := r.pool.QueryRow(ctx, query,
		inv.Code, inv.InviterID, inv.InviteeEmail, inv.Message, inv.Status, inv.ExpiresAt,
	)
	return scanInvitation(row)
}

func (r *InvitationRepository) FindByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	query := `
		SELECT id, code, inviter_id, invitee_email, message, status, created_at, expires_at
		FROM invitations
		WHERE code = $1`

	return scanInvitation(r.pool.QueryRow(ctx, query, code))
}

// MarkExpired is conditional on status so the pending → expired
// transition happens at most once even under concurrent lookups.
func (r *InvitationRepository) MarkExpired(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invitations SET status = 'expired' WHERE id = $1 AND status = 'pending'`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("mark invitation expired: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InvitationRepository) ExpireStale(ctx context.Context, cutoff time.Time, ttl time.Duration, limit int) (int64, error) {
	query := `
		UPDATE invitations SET status = 'expired'
		WHERE id IN (
			SELECT id FROM invitations
			WHERE status = 'pending'
			  AND COALESCE(expires_at, created_at + $1::interval) < $2
			LIMIT $3
		)`

	tag, err := r.pool.Exec(ctx, query, ttl, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("expire stale invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanInvitation(row pgx.Row) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(
		&inv.ID, &inv.Code, &inv.InviterID, &inv.InviteeEmail,
		&inv.Message, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("scan invitation: %w", err)
	}
	return &inv, nil
}
