// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/apwatch/internal/config"
	"github.com/tomtom215/apwatch/internal/gdms"
	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/models"
	"github.com/tomtom215/apwatch/internal/stream"
	syncpkg "github.com/tomtom215/apwatch/internal/sync"
)

// DeviceStore is the storage used by the device endpoints.
type DeviceStore interface {
	Ping(ctx context.Context) error
	GetDevice(ctx context.Context, id int64) (*models.Device, error)
	UpdateDevice(ctx context.Context, id int64, u models.DeviceUpdate) (*models.Device, error)
	DeleteDevice(ctx context.Context, id int64) error
	ListDevices(ctx context.Context, f models.DeviceFilter) ([]models.Device, int, error)
	DeviceStats(ctx context.Context) (models.DeviceStats, error)
	AppendStatusHistory(ctx context.Context, deviceID int64, status models.DeviceStatus) error
	ListStatusHistory(ctx context.Context, deviceID int64, limit int) ([]models.StatusHistory, error)
}

// SyncRunner runs reconciliation passes on demand.
type SyncRunner interface {
	RunSync(ctx context.Context, mode models.SyncMode) (*models.SyncReport, error)
	DryRun(ctx context.Context) (*models.PingReport, error)
}

// SyncRecorder keeps the outcome of the latest run.
type SyncRecorder interface {
	Record(report *models.SyncReport, err error)
	Status() syncpkg.Status
}

// TokenManager exposes the credential cache without revealing the token.
type TokenManager interface {
	Info(ctx context.Context) gdms.TokenInfo
	ForceRefresh(ctx context.Context) (models.Token, error)
}

// EventHub is the event broadcaster.
type EventHub interface {
	Subscribe(sink stream.Sink) (uint64, func())
	Publish(event string, payload any)
}

// Handler contains dependencies for API handlers
type Handler struct {
	db        DeviceStore
	engine    SyncRunner
	recorder  SyncRecorder
	tokens    TokenManager
	hub       EventHub
	config    *config.Config
	startTime time.Time
	// syncEnabled reports whether the periodic scheduler is running.
	syncEnabled bool
}

// NewHandler creates the API handler. recorder may be nil when the periodic
// scheduler is not configured.
func NewHandler(db DeviceStore, engine SyncRunner, recorder SyncRecorder, tokens TokenManager, hub EventHub, cfg *config.Config) *Handler {
	h := &Handler{
		db:        db,
		engine:    engine,
		recorder:  recorder,
		tokens:    tokens,
		hub:       hub,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg != nil {
		h.syncEnabled = cfg.Sync.Enabled && cfg.GDMS.Configured()
	}
	return h
}

func (h *Handler) publish(event string, payload any) {
	if h.hub != nil {
		h.hub.Publish(event, payload)
	}
}

func (h *Handler) streamBufferSize() int {
	if h.config != nil && h.config.Stream.BufferSize > 0 {
		return h.config.Stream.BufferSize
	}
	return stream.DefaultQueueSize
}

func (h *Handler) reportErrorLimit() int {
	if h.config != nil && h.config.Sync.ReportErrorLimit > 0 {
		return h.config.Sync.ReportErrorLimit
	}
	return defaultReportErrorLimit
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against the
// CORS allow list. Browsers always send Origin, so a missing one is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
