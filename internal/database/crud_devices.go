// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/apwatch/internal/models"
)

const deviceColumns = `id, ap_id, name, network_id, network_name, status, lat, lon,
	description, last_sync_at, created_at, updated_at`

// MaxDeviceListLimit bounds ListDevices.
const MaxDeviceListLimit = 10000

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*models.Device, error) {
	var d models.Device
	var status string
	var description sql.NullString
	var lastSyncAt sql.NullTime

	err := row.Scan(&d.ID, &d.APID, &d.Name, &d.NetworkID, &d.NetworkName, &status,
		&d.Lat, &d.Lon, &description, &lastSyncAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to scan device: %w", err)
	}

	d.Status = models.DeviceStatus(status)
	if description.Valid {
		d.Description = description.String
	}
	if lastSyncAt.Valid {
		t := lastSyncAt.Time
		d.LastSyncAt = &t
	}
	return &d, nil
}

// FindDeviceByAPID returns the device with the given remote id, or
// ErrDeviceNotFound.
func (db *DB) FindDeviceByAPID(ctx context.Context, apID string) (d *models.Device, err error) {
	start := time.Now()
	defer func() { db.observe("SELECT", "devices", start, ignoreNotFound(err)) }()

	row := db.conn.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE ap_id = ?`, apID)
	d, err = scanDevice(row)
	if err != nil && !errors.Is(err, ErrDeviceNotFound) {
		return nil, storageErr("find device", err)
	}
	return d, err
}

// GetDevice returns the device with the given local id, or ErrDeviceNotFound.
func (db *DB) GetDevice(ctx context.Context, id int64) (d *models.Device, err error) {
	start := time.Now()
	defer func() { db.observe("SELECT", "devices", start, ignoreNotFound(err)) }()

	row := db.conn.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = ?`, id)
	d, err = scanDevice(row)
	if err != nil && !errors.Is(err, ErrDeviceNotFound) {
		return nil, storageErr("get device", err)
	}
	return d, err
}

// CreateDevice inserts a device and returns it with its assigned id.
func (db *DB) CreateDevice(ctx context.Context, nd models.NewDevice) (d *models.Device, err error) {
	start := time.Now()
	defer func() { db.observe("INSERT", "devices", start, err) }()

	now := db.now()
	lastSync := nd.LastSyncAt
	if lastSync.IsZero() {
		lastSync = now
	}

	row := db.conn.QueryRowContext(ctx, `INSERT INTO devices (
		ap_id, name, network_id, network_name, status, lat, lon, last_sync_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING `+deviceColumns,
		nd.APID, nd.Name, nd.NetworkID, nd.NetworkName, string(nd.Status),
		nd.Lat, nd.Lon, lastSync, now, now,
	)
	d, err = scanDevice(row)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDeviceConflict
		}
		return nil, storageErr("create device", err)
	}
	return d, nil
}

// buildUpdate renders the SET clause for a partial update. updated_at is
// always set.
func buildUpdate(u *models.DeviceUpdate, now time.Time) (string, []any) {
	sets := make([]string, 0, 9)
	args := make([]any, 0, 9)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.NetworkID != nil {
		add("network_id", *u.NetworkID)
	}
	if u.NetworkName != nil {
		add("network_name", *u.NetworkName)
	}
	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.Lat != nil {
		add("lat", *u.Lat)
	}
	if u.Lon != nil {
		add("lon", *u.Lon)
	}
	if u.Description != nil {
		if *u.Description == "" {
			add("description", nil)
		} else {
			add("description", *u.Description)
		}
	}
	if u.LastSyncAt != nil {
		add("last_sync_at", *u.LastSyncAt)
	}
	add("updated_at", now)

	return strings.Join(sets, ", "), args
}

// UpdateDeviceByAPID applies a partial update to the device with the given
// remote id.
func (db *DB) UpdateDeviceByAPID(ctx context.Context, apID string, u models.DeviceUpdate) (err error) {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}
	start := time.Now()
	defer func() { db.observe("UPDATE", "devices", start, ignoreNotFound(err)) }()

	set, args := buildUpdate(&u, db.now())
	res, err := db.conn.ExecContext(ctx, `UPDATE devices SET `+set+` WHERE ap_id = ?`, append(args, apID)...)
	if err != nil {
		return storageErr("update device", err)
	}
	return checkAffected(res)
}

// UpdateDevice applies a partial update by local id and returns the result.
func (db *DB) UpdateDevice(ctx context.Context, id int64, u models.DeviceUpdate) (*models.Device, error) {
	if u.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	start := time.Now()
	set, args := buildUpdate(&u, db.now())
	res, err := db.conn.ExecContext(ctx, `UPDATE devices SET `+set+` WHERE id = ?`, append(args, id)...)
	db.observe("UPDATE", "devices", start, err)
	if err != nil {
		return nil, storageErr("update device", err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return db.GetDevice(ctx, id)
}

// DeleteDevice removes a device and its status history.
func (db *DB) DeleteDevice(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { db.observe("DELETE", "devices", start, ignoreNotFound(err)) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("delete device", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM status_history WHERE device_id = ?`, id); err != nil {
		return storageErr("delete device history", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete device", err)
	}
	if err = checkAffected(res); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return storageErr("delete device", err)
	}
	return nil
}

func buildDeviceWhere(f *models.DeviceFilter) (string, []any) {
	clauses := []string{"1=1"}
	var args []any

	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(f.Status))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		clauses = append(clauses, `(name ILIKE ? ESCAPE '\' OR network_name ILIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(q) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Unsaved {
		clauses = append(clauses, "lat = 0 AND lon = 0")
	}
	if f.Placed {
		clauses = append(clauses, "lat <> 0 AND lon <> 0")
	}
	return strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE wildcards for use with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ListDevices returns devices matching the filter ordered by id, and the
// total number of matches ignoring the limit.
func (db *DB) ListDevices(ctx context.Context, f models.DeviceFilter) (devices []models.Device, total int, err error) {
	start := time.Now()
	defer func() { db.observe("SELECT", "devices", start, err) }()

	limit := f.Limit
	if limit <= 0 || limit > MaxDeviceListLimit {
		limit = MaxDeviceListLimit
	}
	where, args := buildDeviceWhere(&f)

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM devices WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count devices", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE `+where+` ORDER BY id ASC LIMIT ?`,
		append(args, limit)...)
	if err != nil {
		return nil, 0, storageErr("list devices", err)
	}
	defer closeWithLog(rows, "rows")

	devices = make([]models.Device, 0)
	for rows.Next() {
		d, scanErr := scanDevice(rows)
		if scanErr != nil {
			return nil, 0, storageErr("list devices", scanErr)
		}
		devices = append(devices, *d)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, storageErr("list devices", err)
	}
	return devices, total, nil
}

// DeviceStats counts devices by status.
func (db *DB) DeviceStats(ctx context.Context) (stats models.DeviceStats, err error) {
	start := time.Now()
	defer func() { db.observe("SELECT", "devices", start, err) }()

	err = db.conn.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'UP'),
		COUNT(*) FILTER (WHERE status = 'DOWN')
	FROM devices`).Scan(&stats.Total, &stats.Up, &stats.Down)
	if err != nil {
		return stats, storageErr("device stats", err)
	}
	if stats.Total > 0 {
		stats.UpPct = float64(stats.Up) / float64(stats.Total) * 100
		stats.DownPct = float64(stats.Down) / float64(stats.Total) * 100
	}
	return stats, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrDeviceNotFound) {
		return nil
	}
	return err
}
