package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/gin-gonic/gin"
)

// loginBriefer is the slice of the notification service this handler
// calls. Defined here (point of use) so tests can inject a fake.
type loginBriefer interface {
	LoginBrief(ctx context.Context, userID string, events []domain.CalendarEvent) domain.LoginPayload
}

type NotificationHandler struct {
	service loginBriefer
	logger  *slog.Logger
}

func NewNotificationHandler(service loginBriefer, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With("component", "notification_handler"),
	}
}

type loginEventRequest struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start" binding:"required"`
	End     time.Time `json:"end" binding:"required"`
	AllDay  bool      `json:"all_day"`
}

type loginBriefRequest struct {
	Events []loginEventRequest `json:"events"`
}

// POST /api/notifications/login (optional session). Anonymous callers
// get the empty payload rather than a 401 so the client can always
// render something on the login screen.
func (h *NotificationHandler) LoginBrief(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=300")

	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusOK, domain.EmptyLoginPayload())
		return
	}

	var req loginBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	events := make([]domain.CalendarEvent, 0, len(req.Events))
	for _, e := range req.Events {
		events = append(events, domain.CalendarEvent{
			ID:      e.ID,
			Summary: e.Summary,
			Start:   e.Start,
			End:     e.End,
			AllDay:  e.AllDay,
		})
	}

	payload := h.service.LoginBrief(c.Request.Context(), userID, events)
	c.JSON(http.StatusOK, payload)
}
