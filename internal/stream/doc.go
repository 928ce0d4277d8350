// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package stream fans out named events to long-lived client connections.

The Hub keeps a registry of subscribers keyed by an increasing numeric id.
Every subscriber owns a Sink that accepts frames without blocking. A sink
that cannot take a frame is treated as disconnected: it is closed and
removed from the registry on the spot, so no reaper is needed.

Two sinks are provided:
  - QueueSink: a bounded queue drained by the Server-Sent Events handler
  - WebSocketSink: writes each frame as a JSON text message

Frames use Server-Sent Events framing:

	event: status-changed
	data: {"id":12,"status":"DOWN"}

RunWithContext emits an empty "ping" event on a fixed interval so proxies do
not idle out open connections, and closes every subscriber on shutdown.
*/
package stream
