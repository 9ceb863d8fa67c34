package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentalking/geulpi-calendar/config"
	"github.com/dentalking/geulpi-calendar/internal/calendar"
	"github.com/dentalking/geulpi-calendar/internal/email"
	"github.com/dentalking/geulpi-calendar/internal/health"
	"github.com/dentalking/geulpi-calendar/internal/infrastructure/postgres"
	"github.com/dentalking/geulpi-calendar/internal/infrastructure/rediscache"
	ctxlog "github.com/dentalking/geulpi-calendar/internal/log"
	"github.com/dentalking/geulpi-calendar/internal/metrics"
	"github.com/dentalking/geulpi-calendar/internal/notification"
	httptransport "github.com/dentalking/geulpi-calendar/internal/transport/http"
	"github.com/dentalking/geulpi-calendar/internal/transport/http/handler"
	"github.com/dentalking/geulpi-calendar/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
)

const notificationCacheTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Redis is optional: without it the login brief is computed on
	// every request and the health check reports degraded.
	var cachePinger health.Pinger
	var payloadCache notification.PayloadCache
	redisClient, err := rediscache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, notification caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cachePinger = rediscache.Pinger{Client: redisClient}
		payloadCache = rediscache.NewNotificationCache(redisClient, notificationCacheTTL)
	}

	// Auth
	verifier, err := usecase.NewGoogleVerifier(ctx, cfg.GoogleClientID)
	if err != nil {
		stop()
		log.Fatalf("google verifier: %v", err)
	}
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, verifier, []byte(cfg.JWTSecret))
	authHandler := handler.NewAuthHandler(authUsecase, []byte(cfg.JWTSecret), cfg.Env != "local", logger)

	// Invitations
	invitationRepo := postgres.NewInvitationRepository(pool, logger)
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	invitationUsecase := usecase.NewInvitationUsecase(invitationRepo, userRepo, emailSender, cfg.InviteBaseURL, logger)
	invitationHandler := handler.NewInvitationHandler(invitationUsecase, logger)

	// Calendar
	googleFactory := func(ctx context.Context, accessToken string) *calendar.GoogleClient {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		return calendar.NewGoogleClient(ctx, ts, logger)
	}
	calendarHandler := handler.NewCalendarHandler(googleFactory, logger)

	// Notifications
	friendRepo := postgres.NewFriendRepository(pool)
	notificationService := notification.NewService(friendRepo, payloadCache, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	metrics.Register()
	checker := health.NewChecker(pool, cachePinger, cfg.GoogleClientID != "", logger, prometheus.DefaultRegisterer)
	healthHandler := handler.NewHealthHandler(checker, cfg.Env)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, httptransport.Handlers{
			Auth:         authHandler,
			Calendar:     calendarHandler,
			Health:       healthHandler,
			Invitation:   invitationHandler,
			Notification: notificationHandler,
		}, []byte(cfg.JWTSecret)),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
