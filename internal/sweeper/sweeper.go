package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/metrics"
	"github.com/dentalking/geulpi-calendar/internal/repository"
	"github.com/robfig/cron/v3"
)

const batchSize = 500

// Sweeper expires stale pending invitations on a cron schedule. It picks
// up invitations the lookup path never touched — the read-time expiry
// check only fires when someone opens the link.
type Sweeper struct {
	repo     repository.InvitationRepository
	schedule cron.Schedule
	logger   *slog.Logger
}

func New(repo repository.InvitationRepository, cronExpr string, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		repo:     repo,
		schedule: schedule,
		logger:   logger.With("component", "sweeper"),
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
	}()

	expired, err := s.repo.ExpireStale(ctx, start, domain.DefaultInvitationTTL, batchSize)
	if err != nil {
		s.logger.Error("sweep expire stale", "error", err)
		return
	}
	if expired > 0 {
		metrics.InvitationsExpiredTotal.WithLabelValues("sweep").Add(float64(expired))
		s.logger.Info("expired stale invitations", "count", expired)
	}
}
