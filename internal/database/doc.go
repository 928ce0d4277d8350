// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

// Package database provides DuckDB-backed storage for APWatch.
//
// # Tables
//
//   - devices: one row per access point, unique by ap_id (the remote device id)
//   - status_history: append-only status transitions, newest read first
//   - gdms_token: singleton row (id = 1) holding the remote access token
//
// Coordinates default to (0,0), the "not yet assigned" sentinel.
//
// # Files
//
//   - database.go: connection lifecycle
//   - database_schema.go: table and sequence creation
//   - crud_devices.go: device lookup, create, partial update, list, stats
//   - crud_history.go: status history append and listing
//   - token_store.go: DuckDB token slot
//   - token_badger.go: BadgerDB token slot for deployments that keep the
//     token outside the main database file
//   - errors.go: sentinel errors and StorageError
//
// # Testing
//
// Tests open ":memory:" databases through setupTestDB, which serializes DuckDB
// access across tests.
package database
