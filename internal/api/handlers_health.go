// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/apwatch/internal/models"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	SyncEnabled       bool    `json:"sync_enabled"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health reports liveness and database connectivity. An unreachable
// database yields 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      "healthy",
		SyncEnabled: h.syncEnabled,
		Uptime:      time.Since(h.startTime).Seconds(),
	}
	if h.db != nil {
		health.DatabaseConnected = h.db.Ping(ctx) == nil
	}
	if !health.DatabaseConnected {
		health.Status = "degraded"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: ErrCodeUnavailable, Message: "Database unavailable"},
		})
		return
	}

	respondSuccess(w, health, start)
}
