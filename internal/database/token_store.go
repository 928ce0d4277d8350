// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tomtom215/apwatch/internal/models"
)

// tokenSlotID is the well-known id of the singleton token row.
const tokenSlotID = 1

// LoadToken returns the persisted access token, or nil when none is stored.
func (db *DB) LoadToken(ctx context.Context) (tok *models.Token, err error) {
	start := time.Now()
	defer func() { db.observe("SELECT", "gdms_token", start, err) }()

	var t models.Token
	err = db.conn.QueryRowContext(ctx,
		`SELECT access_token, expires_at FROM gdms_token WHERE id = ?`, tokenSlotID,
	).Scan(&t.AccessToken, &t.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("load token", err)
	}
	return &t, nil
}

// SaveToken overwrites the singleton token row.
func (db *DB) SaveToken(ctx context.Context, tok models.Token) (err error) {
	start := time.Now()
	defer func() { db.observe("UPSERT", "gdms_token", start, err) }()

	_, err = db.conn.ExecContext(ctx, `INSERT INTO gdms_token (id, access_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`,
		tokenSlotID, tok.AccessToken, tok.ExpiresAt.UTC(), db.now())
	if err != nil {
		return storageErr("save token", err)
	}
	return nil
}
