// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package api provides the HTTP surface of APWatch using the Chi router.

Handler methods are split across files:

  - handlers.go: Handler struct, dependency interfaces, constructor
  - handlers_helpers.go: response envelope and parameter helpers
  - handlers_health.go: liveness and database ping
  - handlers_sync.go: manual sync, scheduler status, remote platform probes
  - handlers_devices.go: device listing, export, edits, history, stats
  - handlers_stream.go: Server-Sent Events and WebSocket streams

Routes (all JSON endpoints use the models.APIResponse envelope):

	GET    /api/v1/health
	POST   /api/v1/sync?mode=full|status
	GET    /api/v1/sync/status
	GET    /api/v1/gdms/ping
	GET    /api/v1/gdms/token
	POST   /api/v1/gdms/token/refresh
	GET    /api/v1/devices?status=&q=&unsaved=1&placed=1&take=
	GET    /api/v1/devices/export.csv
	GET    /api/v1/devices/{id}
	PATCH  /api/v1/devices/{id}
	DELETE /api/v1/devices/{id}
	PATCH  /api/v1/devices/{id}/coords
	GET    /api/v1/devices/{id}/history?limit=
	GET    /api/v1/stats
	GET    /api/v1/events
	GET    /api/v1/ws
	GET    /metrics

Error mapping:

	*gdms.AuthError            502 REMOTE_AUTH_ERROR
	*gdms.APIError             502 REMOTE_API_ERROR
	database.ErrDeviceNotFound 404 NOT_FOUND
	validation failures        400 VALIDATION_ERROR
	anything else              500 INTERNAL_ERROR

Device mutations publish events on the stream hub: status-changed when a
PATCH changes the status, device-updated for other edits and coordinate
changes, device-deleted on removal.
*/
package api
