// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package services

import (
	"context"
	"time"

	"github.com/tomtom215/apwatch/internal/logging"
)

// DefaultBadgerGCInterval is how often the value log is collected.
const DefaultBadgerGCInterval = 10 * time.Minute

// GarbageCollector is satisfied by *database.BadgerTokenStore.
type GarbageCollector interface {
	RunGC() error
}

// BadgerGCService periodically runs value log GC. GC errors are logged and
// never stop the service.
type BadgerGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewBadgerGCService creates the service. A non-positive interval uses
// DefaultBadgerGCInterval.
func NewBadgerGCService(gc GarbageCollector, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = DefaultBadgerGCInterval
	}
	return &BadgerGCService{gc: gc, interval: interval, name: "badger-gc"}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.gc.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("badger value log GC failed")
			}
		}
	}
}

func (s *BadgerGCService) String() string { return s.name }
