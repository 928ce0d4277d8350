// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/models"
)

// Runner runs one reconciliation pass.
type Runner interface {
	RunSync(ctx context.Context, mode models.SyncMode) (*models.SyncReport, error)
}

// SchedulerConfig configures periodic runs.
type SchedulerConfig struct {
	Mode     models.SyncMode
	Interval time.Duration
	OnStart  bool
}

// Status is the scheduler state exposed over HTTP.
type Status struct {
	Mode       models.SyncMode    `json:"mode"`
	Interval   string             `json:"interval"`
	IntervalMS int64              `json:"intervalMs"`
	Running    bool               `json:"running"`
	LastRunAt  *time.Time         `json:"lastRunAt,omitempty"`
	LastError  string             `json:"lastError,omitempty"`
	LastReport *models.SyncReport `json:"lastReport,omitempty"`
	NextRunAt  *time.Time         `json:"nextRunAt,omitempty"`
}

// Scheduler runs the engine on a fixed interval. Ticks run sequentially; a
// tick that fires while a run is in progress is dropped by the ticker.
type Scheduler struct {
	runner Runner
	cfg    SchedulerConfig
	now    func() time.Time

	mu         stdsync.RWMutex
	running    bool
	lastRunAt  time.Time
	lastErr    error
	lastReport *models.SyncReport
	nextRunAt  time.Time
}

// NewScheduler creates a scheduler. A non-positive interval defaults to
// five minutes.
func NewScheduler(runner Runner, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Mode == "" {
		cfg.Mode = models.SyncModeStatus
	}
	return &Scheduler{runner: runner, cfg: cfg, now: time.Now}
}

// RunWithContext blocks, running a sync every interval until ctx is done.
func (s *Scheduler) RunWithContext(ctx context.Context) error {
	logging.Info().
		Str("mode", string(s.cfg.Mode)).
		Dur("interval", s.cfg.Interval).
		Bool("on_start", s.cfg.OnStart).
		Msg("Sync scheduler started")

	if s.cfg.OnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	s.setNext(s.now().Add(s.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("component", "sync-scheduler").Msg("Sync scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
			s.setNext(s.now().Add(s.cfg.Interval))
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	runCtx := logging.ContextWithNewCorrelationID(ctx)
	report, err := s.runner.RunSync(runCtx, s.cfg.Mode)
	if err != nil && ctx.Err() == nil {
		logging.Ctx(runCtx).Error().Err(err).Msg("Scheduled sync failed")
	}
	s.Record(report, err)
}

func (s *Scheduler) setNext(t time.Time) {
	s.mu.Lock()
	s.nextRunAt = t
	s.mu.Unlock()
}

// Record stores the outcome of a run, scheduled or not.
func (s *Scheduler) Record(report *models.SyncReport, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.lastRunAt = s.now().UTC()
	s.lastErr = err
	if report != nil {
		s.lastReport = report
	}
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Mode:       s.cfg.Mode,
		Interval:   s.cfg.Interval.String(),
		IntervalMS: s.cfg.Interval.Milliseconds(),
		Running:    s.running,
		LastReport: s.lastReport,
	}
	if !s.lastRunAt.IsZero() {
		t := s.lastRunAt
		st.LastRunAt = &t
	}
	if !s.nextRunAt.IsZero() {
		t := s.nextRunAt.UTC()
		st.NextRunAt = &t
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
