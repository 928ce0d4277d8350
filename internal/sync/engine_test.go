// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package sync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/apwatch/internal/models"
	"github.com/tomtom215/apwatch/internal/stream"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(store Store, inv Inventory, pub Publisher) *Engine {
	e := NewEngine(store, inv, pub)
	e.now = func() time.Time { return fixedNow }
	return e
}

func singleNetwork(devices ...models.RemoteDevice) *fakeInventory {
	return &fakeInventory{
		networks: []models.Network{{ID: "n1", Name: "net-n1"}},
		devices:  map[string][]models.RemoteDevice{"n1": devices},
	}
}

func TestRunSync_FullCreatesDevicesWithHistory(t *testing.T) {
	t.Parallel()

	withCoords := remote("n1", "ap-1", models.StatusUp)
	withCoords.Lat, withCoords.Lon = float(10.5), float(-20.25)
	store := newMemoryStore()
	pub := &recordingPublisher{}
	engine := newTestEngine(store, singleNetwork(withCoords, remote("n1", "ap-2", models.StatusDown)), pub)

	report, err := engine.RunSync(context.Background(), models.SyncModeFull)
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if !report.OK || report.Created != 2 || report.Updated != 0 || report.StatusChanges != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.NetworksVisited != 1 || report.DevicesFetched != 2 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if len(report.PerNetwork) != 1 || report.PerNetwork[0].Fetched != 2 {
		t.Errorf("unexpected per-network summary: %+v", report.PerNetwork)
	}

	d1 := store.device("ap-1")
	if d1 == nil || d1.Lat != 10.5 || d1.Lon != -20.25 {
		t.Fatalf("expected remote coordinates on create, got %+v", d1)
	}
	if d1.LastSyncAt == nil || !d1.LastSyncAt.Equal(fixedNow) {
		t.Errorf("LastSyncAt: expected %v, got %v", fixedNow, d1.LastSyncAt)
	}
	d2 := store.device("ap-2")
	if d2.Lat != 0 || d2.Lon != 0 {
		t.Errorf("expected sentinel coordinates, got %v,%v", d2.Lat, d2.Lon)
	}
	if h := store.historyFor(d2.ID); len(h) != 1 || h[0].Status != models.StatusDown {
		t.Errorf("expected one initial history entry, got %+v", h)
	}

	if pub.count(stream.EventDeviceCreated) != 2 {
		t.Errorf("expected 2 device-created events, got %d", pub.count(stream.EventDeviceCreated))
	}
	if pub.count(stream.EventSyncCompleted) != 1 {
		t.Errorf("expected sync-completed event")
	}
}

func TestRunSync_BackfillsOnlySentinelCoordinates(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.seed(models.Device{APID: "unset", Status: models.StatusUp})
	store.seed(models.Device{APID: "placed", Status: models.StatusUp, Lat: 1, Lon: 2})
	store.seed(models.Device{APID: "half", Status: models.StatusUp, Lat: 0, Lon: 5})

	r1 := remote("n1", "unset", models.StatusUp)
	r1.Lat, r1.Lon = float(40), float(50)
	r2 := remote("n1", "placed", models.StatusUp)
	r2.Lat, r2.Lon = float(40), float(50)
	r3 := remote("n1", "half", models.StatusUp)
	r3.Lat, r3.Lon = float(40), float(50)

	engine := newTestEngine(store, singleNetwork(r1, r2, r3), nil)
	if _, err := engine.RunSync(context.Background(), models.SyncModeFull); err != nil {
		t.Fatalf("RunSync: %v", err)
	}

	if d := store.device("unset"); d.Lat != 40 || d.Lon != 50 {
		t.Errorf("sentinel device should take remote coordinates, got %v,%v", d.Lat, d.Lon)
	}
	if d := store.device("placed"); d.Lat != 1 || d.Lon != 2 {
		t.Errorf("human coordinates were overwritten: %v,%v", d.Lat, d.Lon)
	}
	if d := store.device("half"); d.Lat != 0 || d.Lon != 5 {
		t.Errorf("partially placed coordinates were overwritten: %v,%v", d.Lat, d.Lon)
	}
}

func TestRunSync_BackfillAppliesEachAxisIndependently(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.seed(models.Device{APID: "ap", Status: models.StatusUp})
	r := remote("n1", "ap", models.StatusUp)
	r.Lat = float(12)

	engine := newTestEngine(store, singleNetwork(r), nil)
	if _, err := engine.RunSync(context.Background(), models.SyncModeFull); err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if d := store.device("ap"); d.Lat != 12 || d.Lon != 0 {
		t.Errorf("expected lat only, got %v,%v", d.Lat, d.Lon)
	}
}

func TestRunSync_StatusModeNeverTouchesCoordinates(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.seed(models.Device{APID: "ap", Name: "Kept", Status: models.StatusUp, Lat: 3, Lon: 4})
	r := remote("n1", "ap", models.StatusDown)
	r.Lat, r.Lon = float(90), float(90)
	r.DeviceName = "Renamed"

	engine := newTestEngine(store, singleNetwork(r), nil)
	report, err := engine.RunSync(context.Background(), models.SyncModeStatus)
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	d := store.device("ap")
	if d.Lat != 3 || d.Lon != 4 {
		t.Errorf("coordinates changed in status mode: %v,%v", d.Lat, d.Lon)
	}
	if d.Name != "Kept" {
		t.Errorf("name changed in status mode: %q", d.Name)
	}
	if d.Status != models.StatusDown {
		t.Errorf("status not updated")
	}
	if report.Updated != 1 || report.StatusChanges != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRunSync_StatusModeNeverCreates(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	engine := newTestEngine(store, singleNetwork(remote("n1", "new", models.StatusUp)), nil)

	report, err := engine.RunSync(context.Background(), models.SyncModeStatus)
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if store.device("new") != nil {
		t.Error("status sync created a device")
	}
	if report.Created != 0 || report.Updated != 0 || report.DevicesFetched != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRunSync_HistoryOnlyOnTransition(t *testing.T) {
	t.Parallel()

	for _, mode := range []models.SyncMode{models.SyncModeFull, models.SyncModeStatus} {
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()

			store := newMemoryStore()
			dev := store.seed(models.Device{APID: "ap", Status: models.StatusUp})
			inv := singleNetwork(remote("n1", "ap", models.StatusDown))
			pub := &recordingPublisher{}
			engine := newTestEngine(store, inv, pub)

			first, err := engine.RunSync(context.Background(), mode)
			if err != nil {
				t.Fatalf("first run: %v", err)
			}
			second, err := engine.RunSync(context.Background(), mode)
			if err != nil {
				t.Fatalf("second run: %v", err)
			}

			if h := store.historyFor(dev.ID); len(h) != 1 {
				t.Errorf("expected exactly one history entry, got %d", len(h))
			}
			if first.StatusChanges != 1 || second.StatusChanges != 0 {
				t.Errorf("status changes: first=%d second=%d", first.StatusChanges, second.StatusChanges)
			}
			// Updates count attempts, not diffs.
			if first.Updated != 1 || second.Updated != 1 {
				t.Errorf("updated: first=%d second=%d", first.Updated, second.Updated)
			}
			if pub.count(stream.EventStatusChanged) != 1 {
				t.Errorf("expected one status-changed event, got %d", pub.count(stream.EventStatusChanged))
			}
		})
	}
}

func TestRunSync_DeviceFailureIsIsolated(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.seed(models.Device{APID: "bad", Status: models.StatusUp})
	store.seed(models.Device{APID: "good-1", Status: models.StatusUp})
	store.seed(models.Device{APID: "good-2", Status: models.StatusUp})
	store.updateFn = func(apID string) error {
		if apID == "bad" {
			return errBoom
		}
		return nil
	}

	inv := &fakeInventory{
		networks: []models.Network{{ID: "n1"}, {ID: "n2"}},
		devices: map[string][]models.RemoteDevice{
			"n1": {remote("n1", "bad", models.StatusDown), remote("n1", "good-1", models.StatusDown)},
			"n2": {remote("n2", "good-2", models.StatusDown)},
		},
	}
	engine := newTestEngine(store, inv, nil)

	report, err := engine.RunSync(context.Background(), models.SyncModeFull)
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if report.OK {
		t.Error("report should not be ok")
	}
	if len(report.Errors) != 1 || report.Errors[0].DeviceID != "bad" || report.Errors[0].Reason != "boom" {
		t.Errorf("unexpected errors: %+v", report.Errors)
	}
	if report.ErrorCount != 1 {
		t.Errorf("ErrorCount: expected 1, got %d", report.ErrorCount)
	}
	if report.Updated != 2 {
		t.Errorf("expected 2 updates, got %d", report.Updated)
	}
	for _, id := range []string{"good-1", "good-2"} {
		if store.device(id).Status != models.StatusDown {
			t.Errorf("%s was not processed", id)
		}
	}
}

func TestRunSync_PanicInDeviceStepIsRecorded(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.seed(models.Device{APID: "explodes", Status: models.StatusUp})
	store.seed(models.Device{APID: "fine", Status: models.StatusUp})
	store.updateFn = func(apID string) error {
		if apID == "explodes" {
			panic("nil map")
		}
		return nil
	}
	engine := newTestEngine(store, singleNetwork(remote("n1", "explodes", models.StatusUp), remote("n1", "fine", models.StatusUp)), nil)

	report, err := engine.RunSync(context.Background(), models.SyncModeFull)
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0].Reason, "nil map") {
		t.Errorf("unexpected errors: %+v", report.Errors)
	}
	if report.Updated != 1 {
		t.Errorf("expected the healthy device to be updated, got %d", report.Updated)
	}
}

func TestRunSync_StorageLookupFailureIsPerDevice(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.findErr = errBoom
	engine := newTestEngine(store, singleNetwork(remote("n1", "a", models.StatusUp), remote("n1", "b", models.StatusUp)), nil)

	report, err := engine.RunSync(context.Background(), models.SyncModeFull)
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if len(report.Errors) != 2 {
		t.Errorf("expected 2 per-device errors, got %+v", report.Errors)
	}
}

func TestRunSync_ListingFailuresPropagate(t *testing.T) {
	t.Parallel()

	t.Run("networks", func(t *testing.T) {
		t.Parallel()
		inv := &fakeInventory{networksErr: errBoom}
		report, err := newTestEngine(newMemoryStore(), inv, nil).RunSync(context.Background(), models.SyncModeFull)
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if report != nil {
			t.Error("expected no report")
		}
	})

	t.Run("devices", func(t *testing.T) {
		t.Parallel()
		store := newMemoryStore()
		inv := &fakeInventory{
			networks: []models.Network{{ID: "n1"}, {ID: "n2"}, {ID: "n3"}},
			devices: map[string][]models.RemoteDevice{
				"n1": {remote("n1", "first", models.StatusUp)},
				"n3": {remote("n3", "never", models.StatusUp)},
			},
			devicesErr: map[string]error{"n2": errBoom},
		}
		pub := &recordingPublisher{}
		_, err := newTestEngine(store, inv, pub).RunSync(context.Background(), models.SyncModeFull)
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if store.device("first") == nil {
			t.Error("completed network should keep its writes")
		}
		if store.device("never") != nil {
			t.Error("networks after the failure should not be processed")
		}
		if pub.count(stream.EventSyncCompleted) != 0 {
			t.Error("failed run should not publish sync-completed")
		}
	})
}

func TestRunSync_RejectsUnknownMode(t *testing.T) {
	t.Parallel()

	_, err := newTestEngine(newMemoryStore(), singleNetwork(), nil).RunSync(context.Background(), "partial")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRunSync_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestEngine(newMemoryStore(), singleNetwork(remote("n1", "a", models.StatusUp)), nil).RunSync(ctx, models.SyncModeFull)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDryRun(t *testing.T) {
	t.Parallel()

	inv := &fakeInventory{devices: map[string][]models.RemoteDevice{}}
	for i := 0; i < 25; i++ {
		id := string(rune('a' + i))
		inv.networks = append(inv.networks, models.Network{ID: id, Name: "net " + id})
		inv.devices[id] = []models.RemoteDevice{remote(id, id+"-1", models.StatusUp), remote(id, id+"-2", models.StatusDown)}
	}
	store := newMemoryStore()

	report, err := newTestEngine(store, inv, nil).DryRun(context.Background())
	if err != nil {
		t.Fatalf("DryRun: %v", err)
	}
	if !report.OK || report.Networks != 25 || report.TotalAPs != 50 {
		t.Errorf("unexpected report: %+v", report)
	}
	if len(report.PerNetwork) != 20 {
		t.Errorf("expected 20 networks in summary, got %d", len(report.PerNetwork))
	}
	if len(store.devices) != 0 {
		t.Error("dry run wrote to storage")
	}
}
