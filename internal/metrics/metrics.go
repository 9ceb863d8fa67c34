package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/dentalking/geulpi-calendar/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Notification metrics

	LoginBriefDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geulpi",
		Name:      "login_brief_duration_seconds",
		Help:      "Time to aggregate the login notification payload.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	LoginBriefDegradedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "geulpi",
		Name:      "login_brief_degraded_total",
		Help:      "Login notification requests answered with the degraded fallback payload.",
	})

	NotificationCacheResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geulpi",
		Name:      "notification_cache_results_total",
		Help:      "Notification cache lookups, by result.",
	}, []string{"result"})

	// Invitation metrics

	InvitationsExpiredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geulpi",
		Name:      "invitations_expired_total",
		Help:      "Invitations transitioned to expired, by trigger.",
	}, []string{"trigger"})

	SweepCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geulpi",
		Name:      "sweep_cycle_duration_seconds",
		Help:      "Time taken for one invitation expiry sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	// Calendar metrics

	CalendarCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geulpi",
		Name:      "calendar_call_duration_seconds",
		Help:      "Duration of delegated Google Calendar calls.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geulpi",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geulpi",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginBriefDuration,
		LoginBriefDegradedTotal,
		NotificationCacheResults,
		InvitationsExpiredTotal,
		SweepCycleDuration,
		CalendarCallDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus liveness/readiness probes backed by the
// health checker.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
