package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/metrics"
	"github.com/dentalking/geulpi-calendar/internal/repository"
)

const (
	friendUpdateWindow = 24 * time.Hour
	friendUpdateLimit  = 10
	minSuggestionGap   = time.Hour
)

// PayloadCache is the subset of the redis cache the service needs.
// Defined here (point of use) so tests can inject a fake.
type PayloadCache interface {
	Get(ctx context.Context, userID string) (*domain.LoginPayload, error)
	Set(ctx context.Context, userID string, p domain.LoginPayload) error
}

type Service struct {
	friends repository.FriendRepository
	cache   PayloadCache // nil disables caching
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(friends repository.FriendRepository, cache PayloadCache, logger *slog.Logger) *Service {
	return &Service{
		friends: friends,
		cache:   cache,
		logger:  logger.With("component", "notification"),
		now:     time.Now,
	}
}

// LoginBrief aggregates the login notification payload from the day's
// events and recent friend activity. It never fails: when a dependency
// errors the degraded fallback is returned instead, flagged so callers
// can tell it apart from a genuinely empty day.
func (s *Service) LoginBrief(ctx context.Context, userID string, events []domain.CalendarEvent) domain.LoginPayload {
	start := s.now()
	defer func() {
		metrics.LoginBriefDuration.Observe(time.Since(start).Seconds())
	}()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("notification cache read failed", "error", err)
		} else if cached != nil {
			metrics.NotificationCacheResults.WithLabelValues("hit").Inc()
			return *cached
		}
		metrics.NotificationCacheResults.WithLabelValues("miss").Inc()
	}

	sorted := make([]domain.CalendarEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	payload := domain.LoginPayload{
		Brief:         brief(sorted, start),
		Conflicts:     conflicts(sorted),
		Suggestions:   suggestions(sorted),
		FriendUpdates: []domain.FriendUpdate{},
	}

	updates, err := s.friends.RecentUpdates(ctx, userID, start.Add(-friendUpdateWindow), friendUpdateLimit)
	if err != nil {
		s.logger.Error("friend updates unavailable, degrading payload", "user_id", userID, "error", err)
		metrics.LoginBriefDegradedTotal.Inc()
		return domain.EmptyLoginPayload()
	}
	if updates != nil {
		payload.FriendUpdates = updates
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, payload); err != nil {
			s.logger.Warn("notification cache write failed", "error", err)
		}
	}
	return payload
}

func brief(sorted []domain.CalendarEvent, now time.Time) *domain.DailyBrief {
	b := &domain.DailyBrief{
		Date:       now.Format("2006-01-02"),
		EventCount: len(sorted),
	}
	if len(sorted) == 0 {
		return b
	}

	b.FirstEvent = sorted[0].Summary
	b.LastEvent = sorted[len(sorted)-1].Summary

	var busy time.Duration
	for _, ev := range sorted {
		if !ev.AllDay {
			busy += ev.Duration()
		}
	}
	b.BusyHours = busy.Hours()
	return b
}

// conflicts reports every overlapping pair. The scan is quadratic in the
// worst case but bounded by the inner break on sorted starts.
func conflicts(sorted []domain.CalendarEvent) []domain.Conflict {
	out := []domain.Conflict{}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if !sorted[j].Start.Before(sorted[i].End) {
				break
			}
			a, b := sorted[i], sorted[j]
			end := a.End
			if b.End.Before(end) {
				end = b.End
			}
			out = append(out, domain.Conflict{
				First:   a,
				Second:  b,
				Overlap: end.Sub(b.Start),
			})
		}
	}
	return out
}

// suggestions proposes free slots in the gaps between events, skipping
// gaps shorter than minSuggestionGap. A gap is measured against the
// latest end seen so far, not the previous event's end: an earlier,
// longer event can span the space between two later ones.
func suggestions(sorted []domain.CalendarEvent) []domain.Suggestion {
	out := []domain.Suggestion{}
	if len(sorted) == 0 {
		return out
	}

	busyUntil := sorted[0].End
	lastSummary := sorted[0].Summary
	for _, ev := range sorted[1:] {
		if ev.Start.Sub(busyUntil) >= minSuggestionGap {
			out = append(out, domain.Suggestion{
				Title: fmt.Sprintf("Free slot after %s", lastSummary),
				Start: busyUntil,
				End:   ev.Start,
			})
		}
		if ev.End.After(busyUntil) {
			busyUntil = ev.End
			lastSummary = ev.Summary
		}
	}
	return out
}
