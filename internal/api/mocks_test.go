// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/apwatch/internal/config"
	"github.com/tomtom215/apwatch/internal/database"
	"github.com/tomtom215/apwatch/internal/gdms"
	"github.com/tomtom215/apwatch/internal/models"
	"github.com/tomtom215/apwatch/internal/stream"
	syncpkg "github.com/tomtom215/apwatch/internal/sync"
)

// mockStore is an in-memory DeviceStore.
type mockStore struct {
	mu       sync.Mutex
	devices  map[int64]*models.Device
	history  map[int64][]models.StatusHistory
	pingErr  error
	listErr  error
	lastList models.DeviceFilter
}

func newMockStore(devices ...models.Device) *mockStore {
	s := &mockStore{
		devices: make(map[int64]*models.Device),
		history: make(map[int64][]models.StatusHistory),
	}
	for i := range devices {
		d := devices[i]
		s.devices[d.ID] = &d
	}
	return s
}

func (s *mockStore) Ping(context.Context) error { return s.pingErr }

func (s *mockStore) GetDevice(_ context.Context, id int64) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok {
		return nil, database.ErrDeviceNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *mockStore) UpdateDevice(_ context.Context, id int64, u models.DeviceUpdate) (*models.Device, error) {
	if u.IsEmpty() {
		return nil, database.ErrEmptyUpdate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok {
		return nil, database.ErrDeviceNotFound
	}
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Status != nil {
		d.Status = *u.Status
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.Lat != nil {
		d.Lat = *u.Lat
	}
	if u.Lon != nil {
		d.Lon = *u.Lon
	}
	cp := *d
	return &cp, nil
}

func (s *mockStore) DeleteDevice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.devices[id]; !ok {
		return database.ErrDeviceNotFound
	}
	delete(s.devices, id)
	delete(s.history, id)
	return nil
}

func (s *mockStore) ListDevices(_ context.Context, f models.DeviceFilter) ([]models.Device, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastList = f
	var out []models.Device
	for _, d := range s.devices {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *mockStore) DeviceStats(context.Context) (models.DeviceStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st models.DeviceStats
	for _, d := range s.devices {
		st.Total++
		if d.Status == models.StatusUp {
			st.Up++
		} else {
			st.Down++
		}
	}
	if st.Total > 0 {
		st.UpPct = float64(st.Up) / float64(st.Total) * 100
		st.DownPct = float64(st.Down) / float64(st.Total) * 100
	}
	return st, nil
}

func (s *mockStore) AppendStatusHistory(_ context.Context, id int64, status models.DeviceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[id] = append(s.history[id], models.StatusHistory{
		ID: int64(len(s.history[id]) + 1), DeviceID: id, Status: status, ChangedAt: time.Now().UTC(),
	})
	return nil
}

func (s *mockStore) ListStatusHistory(_ context.Context, id int64, limit int) ([]models.StatusHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history[id]
	out := make([]models.StatusHistory, 0, len(entries))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (s *mockStore) historyLen(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history[id])
}

// mockRunner stubs the sync engine.
type mockRunner struct {
	runSync func(ctx context.Context, mode models.SyncMode) (*models.SyncReport, error)
	dryRun  func(ctx context.Context) (*models.PingReport, error)
}

func (m *mockRunner) RunSync(ctx context.Context, mode models.SyncMode) (*models.SyncReport, error) {
	return m.runSync(ctx, mode)
}

func (m *mockRunner) DryRun(ctx context.Context) (*models.PingReport, error) {
	return m.dryRun(ctx)
}

// mockRecorder records Record calls.
type mockRecorder struct {
	mu      sync.Mutex
	reports []*models.SyncReport
	errs    []error
	status  syncpkg.Status
}

func (m *mockRecorder) Record(report *models.SyncReport, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	m.errs = append(m.errs, err)
}

func (m *mockRecorder) Status() syncpkg.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// mockTokens stubs the credential cache.
type mockTokens struct {
	info    gdms.TokenInfo
	refresh func(ctx context.Context) (models.Token, error)
}

func (m *mockTokens) Info(context.Context) gdms.TokenInfo { return m.info }

func (m *mockTokens) ForceRefresh(ctx context.Context) (models.Token, error) {
	return m.refresh(ctx)
}

// recordingHub captures published events.
type recordingHub struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	name    string
	payload any
}

func (h *recordingHub) Subscribe(sink stream.Sink) (uint64, func()) {
	return 1, func() { sink.Close() }
}

func (h *recordingHub) Publish(event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, publishedEvent{name: event, payload: payload})
}

func (h *recordingHub) published() []publishedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]publishedEvent(nil), h.events...)
}

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		Sync:     config.SyncConfig{ReportErrorLimit: 2},
		Security: config.SecurityConfig{CORSOrigins: []string{"http://localhost:3000"}, RateLimitDisabled: true},
		Stream:   config.StreamConfig{BufferSize: 16},
	}
}

func testDevice(id int64, status models.DeviceStatus) models.Device {
	return models.Device{
		ID:          id,
		APID:        "AP-" + string(rune('A'+id)),
		Name:        "Device",
		NetworkID:   "n1",
		NetworkName: "Campus",
		Status:      status,
		UpdatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

type testEnv struct {
	store    *mockStore
	runner   *mockRunner
	recorder *mockRecorder
	tokens   *mockTokens
	hub      *recordingHub
	handler  *Handler
	router   http.Handler
}

func newTestEnv(devices ...models.Device) *testEnv {
	env := &testEnv{
		store: newMockStore(devices...),
		runner: &mockRunner{
			runSync: func(context.Context, models.SyncMode) (*models.SyncReport, error) {
				return &models.SyncReport{OK: true}, nil
			},
			dryRun: func(context.Context) (*models.PingReport, error) {
				return &models.PingReport{OK: true}, nil
			},
		},
		recorder: &mockRecorder{},
		tokens: &mockTokens{
			refresh: func(context.Context) (models.Token, error) {
				return models.Token{AccessToken: "secret", ExpiresAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}, nil
			},
		},
		hub: &recordingHub{},
	}
	cfg := testConfig()
	env.handler = NewHandler(env.store, env.runner, env.recorder, env.tokens, env.hub, cfg)
	env.router = NewRouter(env.handler, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security))).SetupChi()
	return env
}

func (env *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// decodeResponse decodes the envelope and, when data is non-nil, its data
// field.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) models.APIResponse {
	t.Helper()
	var envelope struct {
		models.APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", envelope.Data, err)
		}
	}
	return envelope.APIResponse
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	resp := decodeResponse(t, rec, nil)
	if resp.Status != "error" || resp.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if resp.Error.Code != want {
		t.Errorf("error code = %q, want %q", resp.Error.Code, want)
	}
}
