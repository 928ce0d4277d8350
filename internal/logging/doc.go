// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

// Package logging provides centralized zerolog-based structured logging for APWatch.
//
// A single global logger is configured once at startup and shared by every
// component. JSON output is the default; console output is available for local
// development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("network", id).Int("devices", n).Msg("Fetched devices")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Device reconcile failed")
//
// # Context Propagation
//
// HTTP requests carry a request ID and sync runs carry a correlation ID. Both are
// stored in the context and added to every event logged through Ctx:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Msg("Sync started")
//	// {"level":"info","correlation_id":"3f2a9c1d","message":"Sync started"}
//
// # Supervisor Integration
//
// Suture v4 logs through log/slog. NewSlogLogger returns an slog.Logger whose
// records are written by the global zerolog logger, so supervisor events use
// the same format and level as the rest of the service.
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
package logging
