package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/notification"
)

// ---- fakes ----

type fakeFriendRepo struct {
	recentUpdates func(ctx context.Context, userID string, since time.Time, limit int) ([]domain.FriendUpdate, error)
}

func (r *fakeFriendRepo) RecentUpdates(ctx context.Context, userID string, since time.Time, limit int) ([]domain.FriendUpdate, error) {
	return r.recentUpdates(ctx, userID, since, limit)
}

type fakeCache struct {
	get func(ctx context.Context, userID string) (*domain.LoginPayload, error)
	set func(ctx context.Context, userID string, p domain.LoginPayload) error
}

func (c *fakeCache) Get(ctx context.Context, userID string) (*domain.LoginPayload, error) {
	return c.get(ctx, userID)
}

func (c *fakeCache) Set(ctx context.Context, userID string, p domain.LoginPayload) error {
	return c.set(ctx, userID, p)
}

// ---- helpers ----

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func ev(summary string, start, end time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{ID: summary, Summary: summary, Start: start, End: end}
}

func noUpdates(_ context.Context, _ string, _ time.Time, _ int) ([]domain.FriendUpdate, error) {
	return nil, nil
}

func newService(friends *fakeFriendRepo) *notification.Service {
	return notification.NewService(friends, nil, slog.Default())
}

// ---- LoginBrief ----

func TestLoginBrief_EmptyDay(t *testing.T) {
	p := newService(&fakeFriendRepo{recentUpdates: noUpdates}).
		LoginBrief(context.Background(), "u1", nil)

	if p.Degraded {
		t.Fatal("empty day must not be degraded")
	}
	if p.Brief == nil || p.Brief.EventCount != 0 {
		t.Fatalf("want empty brief, got %+v", p.Brief)
	}
	if len(p.Conflicts) != 0 || len(p.Suggestions) != 0 || len(p.FriendUpdates) != 0 {
		t.Fatalf("want empty lists, got %+v", p)
	}
}

func TestLoginBrief_DetectsOverlappingEvents(t *testing.T) {
	events := []domain.CalendarEvent{
		ev("standup", at(9, 0), at(9, 30)),
		ev("1on1", at(9, 15), at(10, 0)),
		ev("lunch", at(12, 0), at(13, 0)),
	}

	p := newService(&fakeFriendRepo{recentUpdates: noUpdates}).
		LoginBrief(context.Background(), "u1", events)

	if len(p.Conflicts) != 1 {
		t.Fatalf("want 1 conflict, got %d", len(p.Conflicts))
	}
	c := p.Conflicts[0]
	if c.First.Summary != "standup" || c.Second.Summary != "1on1" {
		t.Errorf("conflict pair = %s/%s", c.First.Summary, c.Second.Summary)
	}
	if c.Overlap != 15*time.Minute {
		t.Errorf("overlap = %s, want 15m", c.Overlap)
	}
}

func TestLoginBrief_BackToBackIsNotAConflict(t *testing.T) {
	events := []domain.CalendarEvent{
		ev("a", at(9, 0), at(10, 0)),
		ev("b", at(10, 0), at(11, 0)),
	}

	p := newService(&fakeFriendRepo{recentUpdates: noUpdates}).
		LoginBrief(context.Background(), "u1", events)

	if len(p.Conflicts) != 0 {
		t.Fatalf("want no conflicts, got %d", len(p.Conflicts))
	}
}

func TestLoginBrief_SuggestsGapsOfAnHourOrMore(t *testing.T) {
	events := []domain.CalendarEvent{
		ev("a", at(9, 0), at(10, 0)),
		ev("b", at(10, 30), at(11, 0)), // 30m gap — too short
		ev("c", at(14, 0), at(15, 0)),  // 3h gap — suggested
	}

	p := newService(&fakeFriendRepo{recentUpdates: noUpdates}).
		LoginBrief(context.Background(), "u1", events)

	if len(p.Suggestions) != 1 {
		t.Fatalf("want 1 suggestion, got %d", len(p.Suggestions))
	}
	s := p.Suggestions[0]
	if !s.Start.Equal(at(11, 0)) || !s.End.Equal(at(14, 0)) {
		t.Errorf("suggestion window = %s..%s", s.Start, s.End)
	}
}

func TestLoginBrief_NoSuggestionInsideSpanningEvent(t *testing.T) {
	events := []domain.CalendarEvent{
		ev("offsite", at(9, 0), at(17, 0)),
		ev("a", at(10, 0), at(11, 0)),
		ev("b", at(15, 0), at(16, 0)),
	}

	p := newService(&fakeFriendRepo{recentUpdates: noUpdates}).
		LoginBrief(context.Background(), "u1", events)

	// 11:00-15:00 is between a and b but entirely inside the offsite.
	if len(p.Suggestions) != 0 {
		t.Errorf("want 0 suggestions, got %d: %+v", len(p.Suggestions), p.Suggestions)
	}
}

func TestLoginBrief_SuggestionAfterSpanningEventEnds(t *testing.T) {
	events := []domain.CalendarEvent{
		ev("offsite", at(9, 0), at(13, 0)),
		ev("a", at(10, 0), at(11, 0)),
		ev("b", at(15, 0), at(16, 0)),
	}

	p := newService(&fakeFriendRepo{recentUpdates: noUpdates}).
		LoginBrief(context.Background(), "u1", events)

	if len(p.Suggestions) != 1 {
		t.Fatalf("want 1 suggestion, got %d: %+v", len(p.Suggestions), p.Suggestions)
	}
	s := p.Suggestions[0]
	if !s.Start.Equal(at(13, 0)) || !s.End.Equal(at(15, 0)) {
		t.Errorf("suggestion window = %s..%s, want 13:00..15:00", s.Start, s.End)
	}
}

func TestLoginBrief_BriefSummarizesDay(t *testing.T) {
	events := []domain.CalendarEvent{
		ev("last", at(16, 0), at(17, 0)),
		ev("first", at(9, 0), at(10, 30)),
	}

	p := newService(&fakeFriendRepo{recentUpdates: noUpdates}).
		LoginBrief(context.Background(), "u1", events)

	if p.Brief == nil {
		t.Fatal("missing brief")
	}
	if p.Brief.EventCount != 2 {
		t.Errorf("event count = %d", p.Brief.EventCount)
	}
	if p.Brief.FirstEvent != "first" || p.Brief.LastEvent != "last" {
		t.Errorf("first/last = %s/%s", p.Brief.FirstEvent, p.Brief.LastEvent)
	}
	if p.Brief.BusyHours != 2.5 {
		t.Errorf("busy hours = %f, want 2.5", p.Brief.BusyHours)
	}
}

func TestLoginBrief_FriendRepoFailure_ReturnsDegradedPayload(t *testing.T) {
	friends := &fakeFriendRepo{
		recentUpdates: func(_ context.Context, _ string, _ time.Time, _ int) ([]domain.FriendUpdate, error) {
			return nil, errors.New("db down")
		},
	}

	p := newService(friends).LoginBrief(context.Background(), "u1",
		[]domain.CalendarEvent{ev("a", at(9, 0), at(10, 0))})

	if !p.Degraded {
		t.Fatal("want degraded payload")
	}
	if p.Brief != nil {
		t.Errorf("degraded payload must have nil brief, got %+v", p.Brief)
	}
	if p.Conflicts == nil || p.Suggestions == nil || p.FriendUpdates == nil {
		t.Error("degraded payload lists must be empty, not nil")
	}
}

func TestLoginBrief_CacheHit_SkipsAggregation(t *testing.T) {
	cached := domain.LoginPayload{
		Brief:         &domain.DailyBrief{Date: "2026-03-10", EventCount: 7},
		Conflicts:     []domain.Conflict{},
		Suggestions:   []domain.Suggestion{},
		FriendUpdates: []domain.FriendUpdate{},
	}
	cache := &fakeCache{
		get: func(_ context.Context, _ string) (*domain.LoginPayload, error) { return &cached, nil },
	}
	friends := &fakeFriendRepo{
		recentUpdates: func(_ context.Context, _ string, _ time.Time, _ int) ([]domain.FriendUpdate, error) {
			t.Fatal("cache hit must not reach the friend repo")
			return nil, nil
		},
	}

	p := notification.NewService(friends, cache, slog.Default()).
		LoginBrief(context.Background(), "u1", nil)

	if p.Brief == nil || p.Brief.EventCount != 7 {
		t.Fatalf("want cached payload, got %+v", p.Brief)
	}
}

func TestLoginBrief_CacheMiss_StoresResult(t *testing.T) {
	var stored *domain.LoginPayload
	cache := &fakeCache{
		get: func(_ context.Context, _ string) (*domain.LoginPayload, error) { return nil, nil },
		set: func(_ context.Context, _ string, p domain.LoginPayload) error {
			stored = &p
			return nil
		},
	}

	notification.NewService(&fakeFriendRepo{recentUpdates: noUpdates}, cache, slog.Default()).
		LoginBrief(context.Background(), "u1", []domain.CalendarEvent{ev("a", at(9, 0), at(10, 0))})

	if stored == nil {
		t.Fatal("expected payload written to cache")
	}
	if stored.Brief == nil || stored.Brief.EventCount != 1 {
		t.Fatalf("cached payload = %+v", stored)
	}
}
