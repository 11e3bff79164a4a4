// Package monitoring provides Prometheus instrumentation for the monitor:
// HTTP request metrics, active-process resolution counters, idle-poll
// counters, and terminal session gauges, plus the Gin middleware that
// records the HTTP side.
//
// Metrics are exposed on /metrics via the standard promhttp handler.
package monitoring
