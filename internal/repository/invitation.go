package repository

import (
	"context"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error)
	FindByCode(ctx context.Context, code string) (*domain.Invitation, error)
	// MarkExpired transitions pending → expired and reports whether this
	// call performed the transition. Repeat calls return false.
	MarkExpired(ctx context.Context, id string) (bool, error)
	// ExpireStale bulk-expires pending invitations whose deadline
	// (expires_at, or created_at + ttl when unset) passed before cutoff.
	ExpireStale(ctx context.Context, cutoff time.Time, ttl time.Duration, limit int) (int64, error)
}
