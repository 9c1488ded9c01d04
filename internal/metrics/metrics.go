// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EventsDropped   *prometheus.CounterVec
	EventsHandled   *prometheus.CounterVec
	SnapshotRuns    *prometheus.CounterVec
	RebuildDuration *prometheus.HistogramVec
}

// New registers and returns the service collectors on the default
// registry.
func New() *Metrics {
	return &Metrics{
		RequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catechesis",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "catechesis",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		EventsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catechesis",
				Name:      "events_dropped_total",
				Help:      "Domain events dropped due to a full dispatch queue",
			},
			[]string{"event"},
		),
		EventsHandled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catechesis",
				Name:      "events_handled_total",
				Help:      "Domain events delivered to handlers",
			},
			[]string{"event"},
		),
		SnapshotRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catechesis",
				Name:      "analytics_snapshot_runs_total",
				Help:      "Nightly snapshot job runs by outcome",
			},
			[]string{"outcome"},
		),
		RebuildDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "catechesis",
				Name:      "leaderboard_rebuild_duration_seconds",
				Help:      "Leaderboard rebuild duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
	}
}

// OnEventDropped is the dispatcher hook feeding the dropped counter.
func (m *Metrics) OnEventDropped(name domain.EventName) {
	m.EventsDropped.WithLabelValues(string(name)).Inc()
}

// OnEventHandled is the dispatcher hook feeding the handled counter.
func (m *Metrics) OnEventHandled(name domain.EventName) {
	m.EventsHandled.WithLabelValues(string(name)).Inc()
}

// HTTPMiddleware instruments every request with count and duration.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		m.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
