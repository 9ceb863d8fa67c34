package repository

import (
	"context"

	"github.com/dentalking/geulpi-calendar/internal/domain"
)

type UserRepository interface {
	// Upsert inserts the Google profile or refreshes it on conflict and
	// returns the stored row.
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
