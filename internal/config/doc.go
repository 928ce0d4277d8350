// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

// Package config loads APWatch configuration using Koanf v2.
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
//  3. Environment variables, mapped explicitly by envTransformFunc
//
// Environment variables not present in the mapping table are ignored.
//
// # Remote Platform
//
//	GDMS_BASE              API base URL (default: https://www.gwn.cloud)
//	GDMS_OAUTH_URL         token endpoint for the client_credentials exchange
//	GDMS_CLIENT_ID         client / application id (fallback: GDMS_APP_ID)
//	GDMS_CLIENT_SECRET     shared secret (fallback: GDMS_SECRET)
//	GDMS_PAGE_SIZE         listing page size (default: 200)
//	GDMS_SHOW              access point filter: all, 1 (online), 0 (offline)
//	GDMS_TIMEOUT           per-request timeout (default: 30s)
//	GDMS_RATE_LIMIT        outbound requests per second, 0 = unlimited
//
// # Sync Scheduler
//
//	SYNC_ENABLED           run periodic sync (default: true)
//	SYNC_MODE              full or status (default: status)
//	SYNC_INTERVAL          Go duration (default: 5m)
//	GDMS_SYNC_INTERVAL_MS  interval in milliseconds, overrides SYNC_INTERVAL
//	SYNC_ON_START          run once immediately on startup (default: false)
//
// # Storage, Server, Logging
//
//	DUCKDB_PATH, TOKEN_STORE (database|badger), BADGER_PATH,
//	HTTP_HOST, HTTP_PORT, CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
//	STREAM_HEARTBEAT, LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
package config
