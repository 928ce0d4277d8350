// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"net/http"

	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/stream"
)

// Events streams hub frames as Server-Sent Events until the client
// disconnects or the hub drops the subscriber.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, ErrCodeStreamingFailed, "Streaming not supported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sink := stream.NewQueueSink(h.streamBufferSize())
	id, unsubscribe := h.hub.Subscribe(sink)
	defer unsubscribe()

	log := logging.Ctx(r.Context())
	log.Debug().Uint64("subscriber_id", id).Msg("SSE client connected")

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Uint64("subscriber_id", id).Msg("SSE client disconnected")
			return
		case <-sink.Done():
			return
		case f := <-sink.Frames():
			if _, err := w.Write(f.SSE()); err != nil {
				log.Debug().Err(err).Uint64("subscriber_id", id).Msg("SSE write failed")
				return
			}
			flusher.Flush()
		}
	}
}

// WebSocket upgrades the connection and streams the same frames as JSON
// text messages.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	sink := stream.NewWebSocketSink(conn, h.streamBufferSize())
	_, unsubscribe := h.hub.Subscribe(sink)
	sink.Serve(r.Context(), unsubscribe)
}
