// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: UUID request IDs, propagated to the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge
  - Compression: gzip for JSON and CSV responses

The router applies the first two to every route and Compression only to
the device listing and export routes:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.With(chiMiddleware(middleware.Compression)).Get("/devices", h.ListDevices)

Streaming responses (SSE and WebSocket upgrades) pass through Compression
untouched, and the metrics writer forwards http.Flusher and http.Hijacker
to the underlying connection so both keep working behind it.

Metrics are labelled with the chi route pattern when one matched, so
/api/v1/devices/17 and /api/v1/devices/18 share the series
/api/v1/devices/{id}.
*/
package middleware
