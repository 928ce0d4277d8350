// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Remote platform
	GDMSRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdms_requests_total",
			Help: "Total number of requests sent to the remote platform",
		},
		[]string{"endpoint", "result"}, // result: "success", "http_error", "remote_error", "transport_error"
	)

	GDMSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gdms_request_duration_seconds",
			Help:    "Duration of remote platform requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	GDMSPagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdms_pages_fetched_total",
			Help: "Total number of listing pages fetched",
		},
		[]string{"endpoint"},
	)

	GDMSTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdms_token_refreshes_total",
			Help: "Total number of access token exchanges",
		},
		[]string{"result", "forced"},
	)

	GDMSTokenLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdms_token_lookups_total",
			Help: "Access token lookups by the tier that satisfied them",
		},
		[]string{"tier"}, // "memory", "store", "refresh"
	)

	// Sync
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of reconciliation runs",
		},
		[]string{"mode", "result"}, // result: "ok", "partial", "failed"
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of reconciliation runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	SyncDevicesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_devices_total",
			Help: "Devices processed by reconciliation, by outcome",
		},
		[]string{"outcome"}, // "created", "updated", "status_changed", "skipped", "failed"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp_seconds",
			Help: "Unix time of the last reconciliation run without a hard failure",
		},
	)

	// Event stream
	StreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_subscribers",
			Help: "Current number of open event stream subscribers",
		},
	)

	StreamFramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_frames_sent_total",
			Help: "Total number of frames delivered to subscribers",
		},
		[]string{"event"},
	)

	StreamSubscribersDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_subscribers_dropped_total",
			Help: "Subscribers removed from the registry, by reason",
		},
		[]string{"reason"}, // "write_failed", "unsubscribed", "shutdown"
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Storage
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)
)

// RecordGDMSRequest records one remote platform call.
func RecordGDMSRequest(endpoint, result string, duration time.Duration) {
	GDMSRequestsTotal.WithLabelValues(endpoint, result).Inc()
	GDMSRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordTokenRefresh records a token exchange.
func RecordTokenRefresh(forced bool, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	f := "false"
	if forced {
		f = "true"
	}
	GDMSTokenRefreshes.WithLabelValues(result, f).Inc()
}

// RecordSyncRun records a finished reconciliation run. errorCount is the
// number of per-device failures; err is a hard failure of the run.
func RecordSyncRun(mode string, duration time.Duration, errorCount int, err error) {
	SyncDuration.WithLabelValues(mode).Observe(duration.Seconds())
	switch {
	case err != nil:
		SyncRunsTotal.WithLabelValues(mode, "failed").Inc()
	case errorCount > 0:
		SyncRunsTotal.WithLabelValues(mode, "partial").Inc()
		SyncLastSuccess.SetToCurrentTime()
	default:
		SyncRunsTotal.WithLabelValues(mode, "ok").Inc()
		SyncLastSuccess.SetToCurrentTime()
	}
}

// RecordSyncDevice records the outcome of one reconciled device.
func RecordSyncDevice(outcome string) {
	SyncDevicesTotal.WithLabelValues(outcome).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordAPIRequest records an inbound HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a storage query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}
