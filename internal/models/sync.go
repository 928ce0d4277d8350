// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package models

import (
	"fmt"
	"strings"
	"time"
)

// SyncMode selects what a reconciliation pass may change.
type SyncMode string

const (
	// SyncModeFull may create, update and backfill coordinates.
	SyncModeFull SyncMode = "full"
	// SyncModeStatus only updates status and last-sync time of existing records.
	SyncModeStatus SyncMode = "status"
)

// ParseSyncMode accepts "", "full" and "status". Empty means full.
func ParseSyncMode(s string) (SyncMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return SyncModeFull, nil
	case "status":
		return SyncModeStatus, nil
	default:
		return "", fmt.Errorf("unknown sync mode %q", s)
	}
}

// SyncError records the failure of a single device during reconciliation.
type SyncError struct {
	DeviceID string `json:"deviceId"`
	Reason   string `json:"reason"`
}

// NetworkSummary reports how many devices were fetched for a network.
type NetworkSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Fetched int    `json:"fetched"`
}

// SyncReport is the result of one reconciliation pass.
type SyncReport struct {
	OK              bool             `json:"ok"`
	Mode            SyncMode         `json:"mode"`
	NetworksVisited int              `json:"networksVisited"`
	DevicesFetched  int              `json:"devicesFetched"`
	Created         int              `json:"created"`
	Updated         int              `json:"updated"`
	StatusChanges   int              `json:"statusChanges"`
	PerNetwork      []NetworkSummary `json:"perNetwork"`
	Errors          []SyncError      `json:"errors"`
	ErrorCount      int              `json:"errorCount"`
	StartedAt       time.Time        `json:"startedAt"`
	FinishedAt      time.Time        `json:"finishedAt"`
	DurationMS      int64            `json:"durationMs"`
}

// Truncated returns a copy whose error list holds at most limit entries.
// ErrorCount keeps the full count.
func (r *SyncReport) Truncated(limit int) *SyncReport {
	out := *r
	out.ErrorCount = len(r.Errors)
	if limit >= 0 && len(r.Errors) > limit {
		out.Errors = r.Errors[:limit]
	}
	return &out
}

// PingNetwork is one network in a dry-run inventory summary.
type PingNetwork struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Devices int    `json:"devices"`
}

// PingReport summarizes the remote inventory without touching storage.
type PingReport struct {
	OK         bool          `json:"ok"`
	Networks   int           `json:"networks"`
	TotalAPs   int           `json:"totalAps"`
	PerNetwork []PingNetwork `json:"perNetwork"`
}
