package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/transport/http/middleware"
	"github.com/dentalking/geulpi-calendar/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Login(ctx context.Context, rawIDToken string) (string, *domain.User, error)
	SessionTTL() time.Duration
}

type AuthHandler struct {
	authUsecase  authUsecaser
	jwtKey       []byte
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, jwtKey []byte, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		jwtKey:       jwtKey,
		secureCookie: secureCookie,
		logger:       logger.With("component", "auth_handler"),
	}
}

type loginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type userResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// POST /api/auth/login
// Verifies a Google ID token and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signed, user, err := h.authUsecase.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	maxAge := int(h.authUsecase.SessionTTL().Seconds())
	c.SetCookie(middleware.SessionCookie, signed, maxAge, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": userResponse{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			Picture: user.Picture,
		},
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/auth/status
// Reports the current session. 401 with authenticated:false when the
// cookie is missing or invalid — clients treat that as signed out.
func (h *AuthHandler) Status(c *gin.Context) {
	raw, err := c.Cookie(middleware.SessionCookie)
	if err != nil || raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}

	s, err := usecase.ParseSession(raw, h.jwtKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       s.UserID,
		"email":         s.Email,
		"expires_at":    s.ExpiresAt,
	})
}
