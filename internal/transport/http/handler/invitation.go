package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/usecase"
	"github.com/gin-gonic/gin"
)

// invitationUsecaser is the subset of InvitationUsecase the handler
// needs. Defined here (point of use) so tests can inject a fake.
type invitationUsecaser interface {
	Lookup(ctx context.Context, code string) (*usecase.InvitationInfo, error)
	Create(ctx context.Context, inviterID, inviteeEmail, message string) (*domain.Invitation, error)
}

type InvitationHandler struct {
	invitations invitationUsecaser
	logger      *slog.Logger
}

func NewInvitationHandler(invitations invitationUsecaser, logger *slog.Logger) *InvitationHandler {
	return &InvitationHandler{
		invitations: invitations,
		logger:      logger.With("component", "invitation_handler"),
	}
}

type inviterResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type invitationInfoResponse struct {
	Inviter      inviterResponse `json:"inviter"`
	InviteeEmail string          `json:"invitee_email"`
	Message      string          `json:"message,omitempty"`
}

// GET /api/invitations/info?code=...
func (h *InvitationHandler) Info(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errMissingCode})
		return
	}

	info, err := h.invitations.Lookup(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvitationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": errInvitationUnknown})
		case errors.Is(err, domain.ErrInvitationUsed):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": domain.ErrInvitationUsed.Error()})
		case errors.Is(err, domain.ErrInvitationExpired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": domain.ErrInvitationExpired.Error()})
		case errors.Is(err, domain.ErrInvitationRevoked):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": domain.ErrInvitationRevoked.Error()})
		default:
			h.logger.ErrorContext(c.Request.Context(), "invitation lookup", "code", code, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"invitation": invitationInfoResponse{
			Inviter:      inviterResponse{Name: info.InviterName, Email: info.InviterEmail},
			InviteeEmail: info.InviteeEmail,
			Message:      info.Message,
		},
	})
}

type createInvitationRequest struct {
	InviteeEmail string `json:"invitee_email" binding:"required,email"`
	Message      string `json:"message" binding:"max=500"`
}

type createInvitationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// POST /api/invitations (session required)
func (h *InvitationHandler) Create(c *gin.Context) {
	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	inv, err := h.invitations.Create(c.Request.Context(), c.GetString("userID"), req.InviteeEmail, req.Message)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create invitation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, createInvitationResponse{
		ID:        inv.ID,
		Code:      inv.Code,
		CreatedAt: inv.CreatedAt,
	})
}
