// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/apwatch/internal/database"
	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/metrics"
	"github.com/tomtom215/apwatch/internal/models"
	"github.com/tomtom215/apwatch/internal/stream"
)

// dryRunNetworkLimit caps the per-network list of a dry run.
const dryRunNetworkLimit = 20

// Store is the storage used by reconciliation. FindDeviceByAPID returns
// database.ErrDeviceNotFound for unknown devices.
type Store interface {
	FindDeviceByAPID(ctx context.Context, apID string) (*models.Device, error)
	CreateDevice(ctx context.Context, nd models.NewDevice) (*models.Device, error)
	UpdateDeviceByAPID(ctx context.Context, apID string, u models.DeviceUpdate) error
	AppendStatusHistory(ctx context.Context, deviceID int64, status models.DeviceStatus) error
}

// Inventory lists the remote inventory.
type Inventory interface {
	ListNetworks(ctx context.Context) ([]models.Network, error)
	ListDevices(ctx context.Context, networkID, networkName string) ([]models.RemoteDevice, error)
}

// Publisher receives change notifications.
type Publisher interface {
	Publish(event string, payload any)
}

// Engine merges the remote inventory into local storage.
type Engine struct {
	store     Store
	inventory Inventory
	publisher Publisher
	now       func() time.Time
}

// NewEngine creates an engine. publisher may be nil.
func NewEngine(store Store, inventory Inventory, publisher Publisher) *Engine {
	return &Engine{
		store:     store,
		inventory: inventory,
		publisher: publisher,
		now:       time.Now,
	}
}

func (e *Engine) publish(event string, payload any) {
	if e.publisher != nil {
		e.publisher.Publish(event, payload)
	}
}

// deviceResult is what reconciling one device did.
type deviceResult struct {
	created       bool
	updated       bool
	statusChanged bool
	deviceID      int64
}

// RunSync performs one reconciliation pass. Per-device failures are
// collected in the report; listing failures abort the run and are returned.
func (e *Engine) RunSync(ctx context.Context, mode models.SyncMode) (*models.SyncReport, error) {
	if mode != models.SyncModeFull && mode != models.SyncModeStatus {
		return nil, fmt.Errorf("unknown sync mode %q", mode)
	}

	started := e.now().UTC()
	log := logging.Ctx(ctx).With().Str("component", "sync").Str("mode", string(mode)).Logger()

	report := &models.SyncReport{
		Mode:       mode,
		StartedAt:  started,
		PerNetwork: []models.NetworkSummary{},
		Errors:     []models.SyncError{},
	}
	if err := e.walk(ctx, mode, started, report); err != nil {
		metrics.RecordSyncRun(string(mode), e.now().Sub(started), len(report.Errors), err)
		log.Error().Err(err).Msg("Sync failed")
		return nil, err
	}

	finished := e.now().UTC()
	report.FinishedAt = finished
	report.DurationMS = finished.Sub(started).Milliseconds()
	report.ErrorCount = len(report.Errors)
	report.OK = len(report.Errors) == 0
	metrics.RecordSyncRun(string(mode), finished.Sub(started), len(report.Errors), nil)

	log.Info().
		Int("networks", report.NetworksVisited).
		Int("fetched", report.DevicesFetched).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("status_changes", report.StatusChanges).
		Int("errors", len(report.Errors)).
		Int64("duration_ms", report.DurationMS).
		Msg("Sync completed")

	e.publish(stream.EventSyncCompleted, map[string]any{
		"mode":          mode,
		"created":       report.Created,
		"updated":       report.Updated,
		"statusChanges": report.StatusChanges,
		"errors":        len(report.Errors),
	})
	return report, nil
}

// walk visits every network and device, stamping records with now.
func (e *Engine) walk(ctx context.Context, mode models.SyncMode, now time.Time, report *models.SyncReport) error {
	networks, err := e.inventory.ListNetworks(ctx)
	if err != nil {
		return fmt.Errorf("list networks: %w", err)
	}
	report.NetworksVisited = len(networks)

	for _, network := range networks {
		devices, err := e.inventory.ListDevices(ctx, network.ID, network.Name)
		if err != nil {
			return fmt.Errorf("list devices of network %s: %w", network.ID, err)
		}
		report.PerNetwork = append(report.PerNetwork, models.NetworkSummary{
			ID:      network.ID,
			Name:    network.Name,
			Fetched: len(devices),
		})
		report.DevicesFetched += len(devices)

		for _, dev := range devices {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.applyDevice(ctx, mode, dev, now, report)
		}
	}
	return nil
}

// applyDevice reconciles one device and folds the outcome into report.
func (e *Engine) applyDevice(ctx context.Context, mode models.SyncMode, dev models.RemoteDevice, now time.Time, report *models.SyncReport) {
	res, err := e.reconcileSafely(ctx, mode, dev, now)
	if err != nil {
		metrics.RecordSyncDevice("failed")
		report.Errors = append(report.Errors, models.SyncError{DeviceID: dev.DeviceID, Reason: err.Error()})
		logging.Ctx(ctx).Warn().Err(err).Str("device_id", dev.DeviceID).Msg("Device sync failed")
		return
	}

	switch {
	case res.created:
		report.Created++
		metrics.RecordSyncDevice("created")
		e.publish(stream.EventDeviceCreated, map[string]any{"id": res.deviceID, "apId": dev.DeviceID, "status": dev.Status})
	case res.updated:
		report.Updated++
		metrics.RecordSyncDevice("updated")
	default:
		metrics.RecordSyncDevice("skipped")
	}
	if res.statusChanged {
		report.StatusChanges++
		metrics.RecordSyncDevice("status_changed")
		e.publish(stream.EventStatusChanged, map[string]any{"id": res.deviceID, "status": dev.Status})
	}
}

// reconcileSafely turns a panic in the device step into an error.
func (e *Engine) reconcileSafely(ctx context.Context, mode models.SyncMode, dev models.RemoteDevice, now time.Time) (res deviceResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.reconcile(ctx, mode, dev, now)
}

func (e *Engine) reconcile(ctx context.Context, mode models.SyncMode, dev models.RemoteDevice, now time.Time) (deviceResult, error) {
	existing, err := e.store.FindDeviceByAPID(ctx, dev.DeviceID)
	if err != nil && !errors.Is(err, database.ErrDeviceNotFound) {
		return deviceResult{}, err
	}
	if errors.Is(err, database.ErrDeviceNotFound) {
		existing = nil
	}

	if mode == models.SyncModeStatus {
		if existing == nil {
			return deviceResult{}, nil
		}
		status := dev.Status
		if err := e.store.UpdateDeviceByAPID(ctx, dev.DeviceID, models.DeviceUpdate{Status: &status, LastSyncAt: &now}); err != nil {
			return deviceResult{}, err
		}
		return e.recordTransition(ctx, existing, dev.Status)
	}

	if existing == nil {
		nd := models.NewDevice{
			APID:        dev.DeviceID,
			Name:        dev.DeviceName,
			NetworkID:   dev.NetworkID,
			NetworkName: dev.NetworkName,
			Status:      dev.Status,
			LastSyncAt:  now,
		}
		if dev.Lat != nil {
			nd.Lat = *dev.Lat
		}
		if dev.Lon != nil {
			nd.Lon = *dev.Lon
		}
		created, err := e.store.CreateDevice(ctx, nd)
		if err != nil {
			return deviceResult{}, err
		}
		if err := e.store.AppendStatusHistory(ctx, created.ID, dev.Status); err != nil {
			return deviceResult{}, err
		}
		return deviceResult{created: true, deviceID: created.ID}, nil
	}

	name, networkID, networkName, status := dev.DeviceName, dev.NetworkID, dev.NetworkName, dev.Status
	update := models.DeviceUpdate{
		Name:        &name,
		NetworkID:   &networkID,
		NetworkName: &networkName,
		Status:      &status,
		LastSyncAt:  &now,
	}
	// Remote coordinates only fill the (0,0) sentinel; anything else was
	// placed by a person.
	if !existing.HasCoordinates() {
		update.Lat = dev.Lat
		update.Lon = dev.Lon
	}
	if err := e.store.UpdateDeviceByAPID(ctx, dev.DeviceID, update); err != nil {
		return deviceResult{}, err
	}
	return e.recordTransition(ctx, existing, dev.Status)
}

// recordTransition appends history when the stored status differs.
func (e *Engine) recordTransition(ctx context.Context, existing *models.Device, status models.DeviceStatus) (deviceResult, error) {
	res := deviceResult{updated: true, deviceID: existing.ID}
	if existing.Status == status {
		return res, nil
	}
	if err := e.store.AppendStatusHistory(ctx, existing.ID, status); err != nil {
		return deviceResult{}, err
	}
	res.statusChanged = true
	return res, nil
}

// DryRun lists the remote inventory without touching storage.
func (e *Engine) DryRun(ctx context.Context) (*models.PingReport, error) {
	networks, err := e.inventory.ListNetworks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list networks: %w", err)
	}

	report := &models.PingReport{
		OK:         true,
		Networks:   len(networks),
		PerNetwork: []models.PingNetwork{},
	}
	for _, network := range networks {
		devices, err := e.inventory.ListDevices(ctx, network.ID, network.Name)
		if err != nil {
			return nil, fmt.Errorf("list devices of network %s: %w", network.ID, err)
		}
		report.TotalAPs += len(devices)
		if len(report.PerNetwork) < dryRunNetworkLimit {
			report.PerNetwork = append(report.PerNetwork, models.PingNetwork{
				ID:      network.ID,
				Name:    network.Name,
				Devices: len(devices),
			})
		}
	}
	return report, nil
}
