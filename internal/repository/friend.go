package repository

import (
	"context"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
)

type FriendRepository interface {
	// RecentUpdates returns activity from the user's friends since the
	// given instant, newest first.
	RecentUpdates(ctx context.Context, userID string, since time.Time, limit int) ([]domain.FriendUpdate, error)
}
