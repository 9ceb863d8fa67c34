package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dentalking/geulpi-calendar/internal/calendar"
	"github.com/dentalking/geulpi-calendar/internal/transport/http/handler"
	"github.com/dentalking/geulpi-calendar/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// newCalendarEngine serves the handler against a fake Google API and
// counts how many delegated calls reach it.
func newCalendarEngine(t *testing.T, apiStatus int, calls *atomic.Int64) *gin.Engine {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(apiStatus)
	}))
	t.Cleanup(api.Close)

	logger := testLogger()
	factory := func(ctx context.Context, token string) *calendar.GoogleClient {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		return calendar.NewGoogleClient(ctx, ts, logger).WithBaseURL(api.URL)
	}
	h := handler.NewCalendarHandler(factory, logger)

	r := gin.New()
	r.DELETE("/api/calendar/events", h.DeleteEvent)
	r.POST("/api/calendar/import", h.ImportFeed)
	return r
}

func TestDeleteEvent_NoAccessToken_Returns401WithoutCalling(t *testing.T) {
	var calls atomic.Int64
	r := newCalendarEngine(t, http.StatusNoContent, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/calendar/events",
		strings.NewReader(`{"event_id":"ev-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("delegated calls = %d, want 0", n)
	}
}

func TestDeleteEvent_MissingEventID_Returns400(t *testing.T) {
	var calls atomic.Int64
	r := newCalendarEngine(t, http.StatusNoContent, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/calendar/events", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "tok"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("delegated calls = %d, want 0", n)
	}
}

func TestDeleteEvent_Success_Returns200(t *testing.T) {
	var calls atomic.Int64
	r := newCalendarEngine(t, http.StatusNoContent, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/calendar/events",
		strings.NewReader(`{"event_id":"ev-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "tok"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("delegated calls = %d, want 1", n)
	}
}

func TestDeleteEvent_UpstreamNotFound_Returns404(t *testing.T) {
	var calls atomic.Int64
	r := newCalendarEngine(t, http.StatusNotFound, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/calendar/events",
		strings.NewReader(`{"event_id":"gone"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "tok"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteEvent_UpstreamForbidden_Returns401(t *testing.T) {
	var calls atomic.Int64
	r := newCalendarEngine(t, http.StatusForbidden, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/calendar/events",
		strings.NewReader(`{"event_id":"ev-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "tok"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

const sampleFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:standup@test
SUMMARY:Standup
DTSTART:20990101T090000Z
DTEND:20990101T091500Z
END:VEVENT
END:VCALENDAR
`

func TestImportFeed_GarbageBody_Returns400(t *testing.T) {
	var calls atomic.Int64
	r := newCalendarEngine(t, http.StatusOK, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/import",
		strings.NewReader("not an ics feed"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestImportFeed_ValidFeed_Returns200(t *testing.T) {
	var calls atomic.Int64
	r := newCalendarEngine(t, http.StatusOK, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/import",
		strings.NewReader(sampleFeed))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}
