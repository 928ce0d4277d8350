// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package services

import "context"

// ContextRunner is anything with a blocking, context-aware run loop. It is
// satisfied by *stream.Hub and *sync.Scheduler.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// StreamHubService runs the event hub heartbeat. When it stops, the hub
// closes every subscriber.
type StreamHubService struct {
	hub  ContextRunner
	name string
}

// NewStreamHubService wraps hub.
func NewStreamHubService(hub ContextRunner) *StreamHubService {
	return &StreamHubService{hub: hub, name: "stream-hub"}
}

// Serve implements suture.Service.
func (s *StreamHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

func (s *StreamHubService) String() string { return s.name }

// SyncSchedulerService runs periodic reconciliation.
type SyncSchedulerService struct {
	scheduler ContextRunner
	name      string
}

// NewSyncSchedulerService wraps scheduler.
func NewSyncSchedulerService(scheduler ContextRunner) *SyncSchedulerService {
	return &SyncSchedulerService{scheduler: scheduler, name: "sync-scheduler"}
}

// Serve implements suture.Service.
func (s *SyncSchedulerService) Serve(ctx context.Context) error {
	return s.scheduler.RunWithContext(ctx)
}

func (s *SyncSchedulerService) String() string { return s.name }
