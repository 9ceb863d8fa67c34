package httptransport

import (
	"log/slog"

	"github.com/dentalking/geulpi-calendar/internal/transport/http/handler"
	"github.com/dentalking/geulpi-calendar/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Calendar     *handler.CalendarHandler
	Health       *handler.HealthHandler
	Invitation   *handler.InvitationHandler
	Notification *handler.NotificationHandler
}

func NewRouter(logger *slog.Logger, h Handlers, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	sessionMW := middleware.Session(jwtKey)
	optionalSessionMW := middleware.OptionalSession(jwtKey)

	api := r.Group("/api")

	api.GET("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/status", h.Auth.Status)

	calendar := api.Group("/calendar")
	calendar.DELETE("/events", h.Calendar.DeleteEvent)
	calendar.POST("/import", sessionMW, h.Calendar.ImportFeed)

	api.GET("/invitations/info", h.Invitation.Info)
	api.POST("/invitations", sessionMW, h.Invitation.Create)

	api.POST("/notifications/login", optionalSessionMW, h.Notification.LoginBrief)

	return r
}
