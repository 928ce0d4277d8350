// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package database

import (
	"context"
	"fmt"
)

func getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS devices_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS status_history_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS devices (
			id BIGINT PRIMARY KEY DEFAULT nextval('devices_id_seq'),
			ap_id VARCHAR NOT NULL UNIQUE,
			name VARCHAR NOT NULL,
			network_id VARCHAR NOT NULL DEFAULT '',
			network_name VARCHAR NOT NULL DEFAULT '',
			status VARCHAR NOT NULL DEFAULT 'DOWN',
			lat DOUBLE NOT NULL DEFAULT 0,
			lon DOUBLE NOT NULL DEFAULT 0,
			description VARCHAR,
			last_sync_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS status_history (
			id BIGINT PRIMARY KEY DEFAULT nextval('status_history_id_seq'),
			device_id BIGINT NOT NULL,
			status VARCHAR NOT NULL,
			changed_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_status_history_device ON status_history(device_id, changed_at)`,
		`CREATE TABLE IF NOT EXISTS gdms_token (
			id INTEGER PRIMARY KEY,
			access_token VARCHAR NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
}

func (db *DB) createTables(ctx context.Context) error {
	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
