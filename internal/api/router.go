// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/apwatch/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler. A nil mw uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	mw := router.chiMiddleware

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // global so OPTIONS preflight is answered

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.With(mw.RateLimitCustom(RateLimitHealth)).Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitCustom(RateLimitStream))
			r.Get("/events", h.Events)
			r.Get("/ws", h.WebSocket)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitCustom(RateLimitSync))
			r.Post("/sync", h.TriggerSync)
			r.Get("/gdms/ping", h.GDMSPing)
			r.Post("/gdms/token/refresh", h.GDMSTokenRefresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Get("/sync/status", h.SyncStatus)
			r.Get("/gdms/token", h.GDMSTokenInfo)
			r.Get("/stats", h.Stats)

			r.Route("/devices", func(r chi.Router) {
				r.With(chiMiddleware(middleware.Compression)).Get("/", h.ListDevices)
				r.With(
					mw.RateLimitCustom(RateLimitExport),
					chiMiddleware(middleware.Compression),
				).Get("/export.csv", h.ExportDevicesCSV)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetDevice)
					r.Patch("/", h.UpdateDevice)
					r.Delete("/", h.DeleteDevice)
					r.Patch("/coords", h.UpdateDeviceCoordinates)
					r.Get("/history", h.DeviceHistory)
				})
			})
		})
	})

	return r
}
