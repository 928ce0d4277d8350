// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

// Package metrics exposes Prometheus instrumentation for APWatch.
//
// Metrics are registered on the default registry through promauto and served
// at /metrics. Groups:
//
//   - gdms_*: remote platform requests, token refreshes, pagination
//   - sync_*: reconciliation runs and per-run outcomes
//   - stream_*: event broadcaster subscribers and frames
//   - circuit_breaker_*: breaker state around remote calls
//   - api_*: inbound HTTP requests
//   - duckdb_*: storage query latency
package metrics
