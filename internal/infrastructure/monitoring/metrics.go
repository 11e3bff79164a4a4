package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Active-process resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram

	// Idle detection metrics
	IdleWaitsTotal   *prometheus.CounterVec
	IdleWaitDuration prometheus.Histogram

	// Terminal session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termwatch_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termwatch_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termwatch_resolutions_total",
				Help: "Active-process resolutions by outcome (active or none)",
			},
			[]string{"outcome"},
		),
		ResolutionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "termwatch_resolution_duration_seconds",
				Help:    "Active-process resolution duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		IdleWaitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termwatch_idle_waits_total",
				Help: "Idle waits by outcome (idle, timed_out, canceled)",
			},
			[]string{"outcome"},
		),
		IdleWaitDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "termwatch_idle_wait_duration_seconds",
				Help:    "Idle wait duration in seconds",
				Buckets: []float64{.35, .7, 1.05, 2, 5, 10, 30, 60},
			},
		),
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termwatch_sessions_active",
				Help: "Number of active terminal sessions",
			},
		),
		SessionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termwatch_sessions_total",
				Help: "Total number of terminal sessions created",
			},
		),
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termwatch_ws_connections",
				Help: "Number of open WebSocket output streams",
			},
		),
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termwatch_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records metrics for an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordResolution records one active-process resolution
func (m *Metrics) RecordResolution(found bool, duration time.Duration) {
	outcome := "none"
	if found {
		outcome = "active"
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
	m.ResolutionDuration.Observe(duration.Seconds())
}

// RecordIdleWait records a completed idle wait
func (m *Metrics) RecordIdleWait(outcome string, duration time.Duration) {
	m.IdleWaitsTotal.WithLabelValues(outcome).Inc()
	m.IdleWaitDuration.Observe(duration.Seconds())
}

// SessionOpened records a new terminal session
func (m *Metrics) SessionOpened() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// SessionClosed records a terminated terminal session
func (m *Metrics) SessionClosed() {
	m.SessionsActive.Dec()
}
