// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package database

import (
	"context"
	"time"

	"github.com/tomtom215/apwatch/internal/models"
)

// MaxHistoryLimit bounds ListStatusHistory.
const MaxHistoryLimit = 500

// AppendStatusHistory records a status transition for a device. Entries are
// never updated or deleted except together with their device.
func (db *DB) AppendStatusHistory(ctx context.Context, deviceID int64, status models.DeviceStatus) (err error) {
	start := time.Now()
	defer func() { db.observe("INSERT", "status_history", start, err) }()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO status_history (device_id, status, changed_at) VALUES (?, ?, ?)`,
		deviceID, string(status), db.now())
	if err != nil {
		return storageErr("append status history", err)
	}
	return nil
}

// ListStatusHistory returns a device's transitions, newest first.
func (db *DB) ListStatusHistory(ctx context.Context, deviceID int64, limit int) (entries []models.StatusHistory, err error) {
	start := time.Now()
	defer func() { db.observe("SELECT", "status_history", start, err) }()

	if limit <= 0 {
		limit = 50
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT id, device_id, status, changed_at
		FROM status_history WHERE device_id = ?
		ORDER BY changed_at DESC, id DESC LIMIT ?`, deviceID, limit)
	if err != nil {
		return nil, storageErr("list status history", err)
	}
	defer closeWithLog(rows, "rows")

	entries = make([]models.StatusHistory, 0)
	for rows.Next() {
		var h models.StatusHistory
		var status string
		if err = rows.Scan(&h.ID, &h.DeviceID, &status, &h.ChangedAt); err != nil {
			return nil, storageErr("scan status history", err)
		}
		h.Status = models.DeviceStatus(status)
		entries = append(entries, h)
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr("list status history", err)
	}
	return entries, nil
}

// CountStatusHistory returns the number of transitions recorded for a device.
func (db *DB) CountStatusHistory(ctx context.Context, deviceID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM status_history WHERE device_id = ?`, deviceID).Scan(&n)
	if err != nil {
		return 0, storageErr("count status history", err)
	}
	return n, nil
}
