package middleware

import (
	"net/http"

	"github.com/dentalking/geulpi-calendar/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie holds our signed session JWT.
	SessionCookie = "session"
	// AccessTokenCookie holds the user's Google OAuth access token,
	// forwarded to the Calendar API on delegated calls.
	AccessTokenCookie = "access_token"

	errUnauthorized = "Unauthorized"
)

// Session validates the session cookie and sets "userID" and
// "userEmail" in the gin context. 401 on a missing or invalid cookie.
func Session(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		s, err := usecase.ParseSession(raw, jwtKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("userID", s.UserID)
		c.Set("userEmail", s.Email)
		c.Next()
	}
}

// OptionalSession sets the session keys when a valid cookie is present
// and lets the request through either way. Handlers that degrade
// gracefully (login notifications) use this instead of Session.
func OptionalSession(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err == nil && raw != "" {
			if s, perr := usecase.ParseSession(raw, jwtKey); perr == nil {
				c.Set("userID", s.UserID)
				c.Set("userEmail", s.Email)
			}
		}
		c.Next()
	}
}
