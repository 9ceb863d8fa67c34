package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

type fakeBriefer struct {
	loginBrief func(ctx context.Context, userID string, events []domain.CalendarEvent) domain.LoginPayload
}

func (f *fakeBriefer) LoginBrief(ctx context.Context, userID string, events []domain.CalendarEvent) domain.LoginPayload {
	return f.loginBrief(ctx, userID, events)
}

// newNotificationEngine optionally injects a user ID the way the
// session middleware would.
func newNotificationEngine(svc *fakeBriefer, userID string) *gin.Engine {
	h := handler.NewNotificationHandler(svc, testLogger())
	r := gin.New()
	r.POST("/api/notifications/login", func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
	}, h.LoginBrief)
	return r
}

func TestLoginBrief_Anonymous_ReturnsEmptyPayload(t *testing.T) {
	svc := &fakeBriefer{
		loginBrief: func(_ context.Context, _ string, _ []domain.CalendarEvent) domain.LoginPayload {
			t.Error("service called for anonymous request")
			return domain.LoginPayload{}
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/login",
		strings.NewReader(`{"events":[]}`))
	req.Header.Set("Content-Type", "application/json")
	newNotificationEngine(svc, "").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var payload domain.LoginPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Degraded {
		t.Error("degraded = false, want true for anonymous payload")
	}
	if len(payload.Conflicts) != 0 || len(payload.Suggestions) != 0 {
		t.Errorf("payload not empty: %+v", payload)
	}
}

func TestLoginBrief_MalformedBody_Returns400(t *testing.T) {
	svc := &fakeBriefer{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/login",
		strings.NewReader(`{bad`))
	req.Header.Set("Content-Type", "application/json")
	newNotificationEngine(svc, "user-1").ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLoginBrief_Authenticated_DelegatesToService(t *testing.T) {
	svc := &fakeBriefer{
		loginBrief: func(_ context.Context, userID string, events []domain.CalendarEvent) domain.LoginPayload {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			if len(events) != 1 || events[0].Summary != "Standup" {
				t.Errorf("events = %+v", events)
			}
			return domain.LoginPayload{
				Brief:         &domain.DailyBrief{EventCount: 1},
				Conflicts:     []domain.Conflict{},
				Suggestions:   []domain.Suggestion{},
				FriendUpdates: []domain.FriendUpdate{},
			}
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/login",
		strings.NewReader(`{"events":[{"id":"1","summary":"Standup","start":"2026-08-26T09:00:00Z","end":"2026-08-26T09:15:00Z"}]}`))
	req.Header.Set("Content-Type", "application/json")
	newNotificationEngine(svc, "user-1").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "private, max-age=300" {
		t.Errorf("Cache-Control = %q", cc)
	}
	var payload domain.LoginPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Brief == nil || payload.Brief.EventCount != 1 {
		t.Errorf("brief = %+v", payload.Brief)
	}
	if payload.Degraded {
		t.Error("degraded = true, want false")
	}
}
