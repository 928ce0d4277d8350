// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/models"
	syncpkg "github.com/tomtom215/apwatch/internal/sync"
	"github.com/tomtom215/apwatch/internal/validation"
)

// SyncStatusResponse is the body of GET /sync/status.
type SyncStatusResponse struct {
	Enabled bool `json:"enabled"`
	syncpkg.Status
}

// TokenRefreshResponse is the body of POST /gdms/token/refresh. The token
// itself is never returned.
type TokenRefreshResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

// TriggerSync runs one reconciliation pass. The mode query parameter is
// "full" (default) or "status".
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	mode, err := models.ParseSyncMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, http.StatusBadRequest, validation.ErrCodeValidation, err.Error(), nil)
		return
	}

	ctx := logging.ContextWithNewCorrelationID(r.Context())
	report, err := h.engine.RunSync(ctx, mode)
	if h.recorder != nil {
		h.recorder.Record(report, err)
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("mode", string(mode)).Msg("Manual sync failed")
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, report.Truncated(h.reportErrorLimit()), start)
}

// SyncStatus returns the scheduler state and the latest run outcome.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp := SyncStatusResponse{Enabled: h.syncEnabled}
	if h.recorder != nil {
		resp.Status = h.recorder.Status()
		if resp.LastReport != nil {
			resp.LastReport = resp.LastReport.Truncated(h.reportErrorLimit())
		}
	}
	respondSuccess(w, resp, start)
}

// GDMSPing lists the remote inventory without writing anything.
func (h *Handler) GDMSPing(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := h.engine.DryRun(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, report, start)
}

// GDMSTokenInfo reports whether a token is cached and when it expires.
func (h *Handler) GDMSTokenInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, h.tokens.Info(r.Context()), start)
}

// GDMSTokenRefresh forces a credential exchange.
func (h *Handler) GDMSTokenRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tok, err := h.tokens.ForceRefresh(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, TokenRefreshResponse{ExpiresAt: tok.ExpiresAt.UTC()}, start)
}
