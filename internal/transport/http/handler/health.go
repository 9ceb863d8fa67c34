package handler

import (
	"net/http"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/health"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	checker *health.Checker
	env     string
	started time.Time
}

func NewHealthHandler(checker *health.Checker, env string) *HealthHandler {
	return &HealthHandler{checker: checker, env: env, started: time.Now()}
}

type healthServices struct {
	API            string `json:"api"`
	Database       string `json:"database"`
	Authentication string `json:"authentication"`
}

type healthResponse struct {
	Status         string         `json:"status"`
	Timestamp      time.Time      `json:"timestamp"`
	UptimeSeconds  float64        `json:"uptime"`
	Environment    string         `json:"environment"`
	Services       healthServices `json:"services"`
	ResponseTimeMS int64          `json:"responseTime"`
}

// GET /api/health
// healthy and degraded answer 200, unhealthy 503. The database is the
// hard dependency; anything else down only degrades.
func (h *HealthHandler) Health(c *gin.Context) {
	start := time.Now()
	readiness := h.checker.Readiness(c.Request.Context())

	services := healthServices{API: "operational", Database: "operational", Authentication: "operational"}
	status := "healthy"

	if check, ok := readiness.Checks["postgres"]; ok && check.Status != "up" {
		services.Database = "down"
		status = "unhealthy"
	}
	if check, ok := readiness.Checks["auth"]; ok && check.Status != "up" {
		services.Authentication = "down"
		if status == "healthy" {
			status = "degraded"
		}
	}
	if check, ok := readiness.Checks["redis"]; ok && check.Status != "up" && status == "healthy" {
		status = "degraded"
	}

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(code, healthResponse{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		UptimeSeconds:  time.Since(h.started).Seconds(),
		Environment:    h.env,
		Services:       services,
		ResponseTimeMS: time.Since(start).Milliseconds(),
	})
}
