// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package sync

import (
	"context"
	"errors"
	stdsync "sync"

	"github.com/tomtom215/apwatch/internal/database"
	"github.com/tomtom215/apwatch/internal/models"
)

// memoryStore is an in-memory Store. updateFn, when set, intercepts
// UpdateDeviceByAPID before the default behavior.
type memoryStore struct {
	mu       stdsync.Mutex
	nextID   int64
	devices  map[string]*models.Device
	history  []models.StatusHistory
	updateFn func(apID string) error
	findErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{devices: make(map[string]*models.Device)}
}

func (m *memoryStore) seed(d models.Device) *models.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d.ID = m.nextID
	m.devices[d.APID] = &d
	return &d
}

func (m *memoryStore) FindDeviceByAPID(ctx context.Context, apID string) (*models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	d, ok := m.devices[apID]
	if !ok {
		return nil, database.ErrDeviceNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memoryStore) CreateDevice(ctx context.Context, nd models.NewDevice) (*models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[nd.APID]; ok {
		return nil, database.ErrDeviceConflict
	}
	m.nextID++
	last := nd.LastSyncAt
	d := &models.Device{
		ID:          m.nextID,
		APID:        nd.APID,
		Name:        nd.Name,
		NetworkID:   nd.NetworkID,
		NetworkName: nd.NetworkName,
		Status:      nd.Status,
		Lat:         nd.Lat,
		Lon:         nd.Lon,
		LastSyncAt:  &last,
	}
	m.devices[nd.APID] = d
	cp := *d
	return &cp, nil
}

func (m *memoryStore) UpdateDeviceByAPID(ctx context.Context, apID string, u models.DeviceUpdate) error {
	if m.updateFn != nil {
		if err := m.updateFn(apID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[apID]
	if !ok {
		return database.ErrDeviceNotFound
	}
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.NetworkID != nil {
		d.NetworkID = *u.NetworkID
	}
	if u.NetworkName != nil {
		d.NetworkName = *u.NetworkName
	}
	if u.Status != nil {
		d.Status = *u.Status
	}
	if u.Lat != nil {
		d.Lat = *u.Lat
	}
	if u.Lon != nil {
		d.Lon = *u.Lon
	}
	if u.LastSyncAt != nil {
		t := *u.LastSyncAt
		d.LastSyncAt = &t
	}
	return nil
}

func (m *memoryStore) AppendStatusHistory(ctx context.Context, deviceID int64, status models.DeviceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, models.StatusHistory{ID: int64(len(m.history) + 1), DeviceID: deviceID, Status: status})
	return nil
}

func (m *memoryStore) device(apID string) *models.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[apID]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

func (m *memoryStore) historyFor(deviceID int64) []models.StatusHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.StatusHistory
	for _, h := range m.history {
		if h.DeviceID == deviceID {
			out = append(out, h)
		}
	}
	return out
}

// fakeInventory serves a fixed inventory keyed by network id.
type fakeInventory struct {
	networks    []models.Network
	devices     map[string][]models.RemoteDevice
	networksErr error
	devicesErr  map[string]error
	deviceCalls int
}

func (f *fakeInventory) ListNetworks(ctx context.Context) ([]models.Network, error) {
	if f.networksErr != nil {
		return nil, f.networksErr
	}
	return f.networks, nil
}

func (f *fakeInventory) ListDevices(ctx context.Context, networkID, networkName string) ([]models.RemoteDevice, error) {
	f.deviceCalls++
	if err := f.devicesErr[networkID]; err != nil {
		return nil, err
	}
	return f.devices[networkID], nil
}

// recordingPublisher keeps published event names.
type recordingPublisher struct {
	mu     stdsync.Mutex
	events []string
}

func (r *recordingPublisher) Publish(event string, payload any) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingPublisher) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

var errBoom = errors.New("boom")

func float(v float64) *float64 { return &v }

func remote(networkID, id string, status models.DeviceStatus) models.RemoteDevice {
	return models.RemoteDevice{
		NetworkID:   networkID,
		NetworkName: "net-" + networkID,
		DeviceID:    id,
		DeviceName:  "AP " + id,
		Status:      status,
	}
}
