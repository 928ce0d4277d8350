// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package models

import "time"

// DeviceStatus is the up/down state of an access point.
type DeviceStatus string

const (
	StatusUp   DeviceStatus = "UP"
	StatusDown DeviceStatus = "DOWN"
)

// Valid reports whether s is UP or DOWN.
func (s DeviceStatus) Valid() bool {
	return s == StatusUp || s == StatusDown
}

// Device is the local record of a managed access point.
type Device struct {
	ID          int64        `json:"id"`
	APID        string       `json:"apId"`
	Name        string       `json:"name"`
	NetworkID   string       `json:"networkId"`
	NetworkName string       `json:"networkName"`
	Status      DeviceStatus `json:"status"`
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	Description string       `json:"description,omitempty"`
	LastSyncAt  *time.Time   `json:"lastSyncAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// HasCoordinates reports whether the device left the (0,0) unset sentinel.
func (d *Device) HasCoordinates() bool {
	return d.Lat != 0 || d.Lon != 0
}

// NewDevice holds the fields for creating a device record. Lat and Lon are
// zero when the remote platform supplied no coordinates.
type NewDevice struct {
	APID        string
	Name        string
	NetworkID   string
	NetworkName string
	Status      DeviceStatus
	Lat         float64
	Lon         float64
	LastSyncAt  time.Time
}

// DeviceUpdate is a partial update; nil fields are left unchanged.
type DeviceUpdate struct {
	Name        *string
	NetworkID   *string
	NetworkName *string
	Status      *DeviceStatus
	Lat         *float64
	Lon         *float64
	Description *string
	LastSyncAt  *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u *DeviceUpdate) IsEmpty() bool {
	return u.Name == nil && u.NetworkID == nil && u.NetworkName == nil &&
		u.Status == nil && u.Lat == nil && u.Lon == nil &&
		u.Description == nil && u.LastSyncAt == nil
}

// StatusHistory records one status transition of a device.
type StatusHistory struct {
	ID        int64        `json:"id"`
	DeviceID  int64        `json:"deviceId"`
	Status    DeviceStatus `json:"status"`
	ChangedAt time.Time    `json:"changedAt"`
}

// DeviceFilter selects devices for the list and export endpoints.
type DeviceFilter struct {
	Status DeviceStatus
	// Query matches name or network name, case-insensitively.
	Query string
	// Unsaved selects devices still at the (0,0) sentinel.
	Unsaved bool
	// Placed selects devices with both coordinates non-zero.
	Placed bool
	Limit  int
}

// DeviceStats summarizes the fleet.
type DeviceStats struct {
	Total   int     `json:"total"`
	Up      int     `json:"up"`
	Down    int     `json:"down"`
	UpPct   float64 `json:"upPct"`
	DownPct float64 `json:"downPct"`
}
