// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package main is the entry point for the APWatch server.

APWatch mirrors the access point inventory of a GDMS cloud account into a
local DuckDB database, tracks UP/DOWN transitions, and pushes change events
to connected clients over Server-Sent Events or WebSocket.

# Application Architecture

	RootSupervisor ("apwatch")
	├── DataSupervisor ("data-layer")
	│   └── Badger GC (only with TOKEN_STORE=badger)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Stream Hub (heartbeat, subscriber teardown)
	│   └── Sync Scheduler (only when sync is enabled and credentials are set)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Database: DuckDB with the device, history and token tables
 4. Token store: the database or a BadgerDB directory
 5. GDMS: credential cache and signed listing client
 6. Stream hub and sync engine
 7. Supervisor tree and HTTP server

# Configuration

The remote platform:

	GDMS_BASE=https://www.gwn.cloud
	GDMS_OAUTH_URL=https://www.gwn.cloud/oauth/token
	GDMS_CLIENT_ID=...       (or GDMS_APP_ID)
	GDMS_CLIENT_SECRET=...   (or GDMS_SECRET)
	GDMS_PAGE_SIZE=200
	GDMS_SHOW=all
	GDMS_SYNC_INTERVAL_MS=300000

Without credentials the server still starts; sync endpoints answer with
REMOTE_AUTH_ERROR and the scheduler is not started.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server (waiting for in-flight requests), the scheduler and the hub, after
which the token store and database are closed.
*/
package main
