package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/calendar"
	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/ics"
	"github.com/dentalking/geulpi-calendar/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

const (
	maxFeedBytes     = 1 << 20
	feedExpandWindow = 30 * 24 * time.Hour
)

// GoogleFactory builds a per-request calendar client from the caller's
// access token. Tests point it at an httptest server via WithBaseURL.
type GoogleFactory func(ctx context.Context, accessToken string) *calendar.GoogleClient

type CalendarHandler struct {
	newClient GoogleFactory
	logger    *slog.Logger
}

func NewCalendarHandler(newClient GoogleFactory, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{newClient: newClient, logger: logger.With("component", "calendar_handler")}
}

type deleteEventRequest struct {
	EventID string `json:"event_id" binding:"required"`
}

// DELETE /api/calendar/events
// Requires the Google access-token cookie; without it no delegated call
// is made.
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	token, err := c.Cookie(middleware.AccessTokenCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	var req deleteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := h.newClient(c.Request.Context(), token)
	if err := client.DeleteEvent(c.Request.Context(), req.EventID); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		default:
			h.logger.ErrorContext(c.Request.Context(), "delete event", "event_id", req.EventID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "message": "Failed to delete event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type feedEventResponse struct {
	ID       string    `json:"id"`
	Summary  string    `json:"summary"`
	Location string    `json:"location,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
}

// POST /api/calendar/import
// Accepts a raw ICS payload and returns the expanded occurrences for
// the next 30 days.
func (h *CalendarHandler) ImportFeed(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFeedBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidFeed})
		return
	}

	parsed, err := ics.Parse(body, h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidFeed, "message": err.Error()})
		return
	}

	now := time.Now()
	events, err := ics.Expand(parsed, now, now.Add(feedExpandWindow), h.logger)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "expand feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]feedEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, feedEventResponse{
			ID:       ev.ID,
			Summary:  ev.Summary,
			Location: ev.Location,
			Start:    ev.Start,
			End:      ev.End,
			AllDay:   ev.AllDay,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": out})
}
