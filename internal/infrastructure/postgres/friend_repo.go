package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FriendRepository struct {
	pool *pgxpool.Pool
}

func NewFriendRepository(pool *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{pool: pool}
}

func (r *FriendRepository) RecentUpdates(ctx context.Context, userID string, since time.Time, limit int) ([]domain.FriendUpdate, error) {
	query := `
		SELECT u.name, a.summary, a.created_at
		FROM friend_activity a
		JOIN friendships f ON f.friend_id = a.user_id AND f.user_id = $1
		JOIN users u ON u.id = a.user_id
		WHERE a.created_at > $2
		ORDER BY a.created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list friend updates: %w", err)
	}
	defer rows.Close()

	var updates []domain.FriendUpdate
	for rows.Next() {
		var fu domain.FriendUpdate
		if err := rows.Scan(&fu.FriendName, &fu.Summary, &fu.At); err != nil {
			return nil, fmt.Errorf("scan friend update: %w", err)
		}
		updates = append(updates, fu)
	}
	return updates, rows.Err()
}
