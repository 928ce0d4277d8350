// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package stream

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/metrics"
)

// DefaultHeartbeatInterval is the ping period used when none is configured.
const DefaultHeartbeatInterval = 20 * time.Second

// Reasons a subscriber leaves the registry.
const (
	dropWriteFailed  = "write_failed"
	dropUnsubscribed = "unsubscribed"
	dropShutdown     = "shutdown"
)

type subscriber struct {
	id     uint64
	sink   Sink
	closed atomic.Bool
	once   sync.Once
}

// teardown closes the sink once no matter how many paths reach it.
func (s *subscriber) teardown() bool {
	first := false
	s.once.Do(func() {
		first = true
		s.closed.Store(true)
		s.sink.Close()
	})
	return first
}

// Hub is the registry of open subscribers.
type Hub struct {
	heartbeat time.Duration

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*subscriber
}

// NewHub creates a hub. A non-positive heartbeat uses the default.
func NewHub(heartbeat time.Duration) *Hub {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	return &Hub{
		heartbeat: heartbeat,
		subs:      make(map[uint64]*subscriber),
	}
}

// Subscribe registers sink and sends it a connected frame carrying the
// assigned id. The returned function removes the subscriber; calling it
// more than once, or after the hub dropped the subscriber, is a no-op.
func (h *Hub) Subscribe(sink Sink) (uint64, func()) {
	h.mu.Lock()
	h.nextID++
	sub := &subscriber{id: h.nextID, sink: sink}
	h.subs[sub.id] = sub
	// Sent before the lock is released so no published frame can precede it.
	frame, _ := NewFrame(EventConnected, map[string]uint64{"id": sub.id})
	err := sink.Send(frame)
	h.mu.Unlock()

	metrics.StreamSubscribers.Inc()
	if err != nil {
		h.remove(sub, dropWriteFailed)
	} else {
		metrics.StreamFramesSent.WithLabelValues(EventConnected).Inc()
		logging.Debug().Uint64("subscriber_id", sub.id).Int("subscribers", h.Count()).Msg("stream subscriber connected")
	}

	return sub.id, func() { h.remove(sub, dropUnsubscribed) }
}

// remove deletes sub from the registry and tears it down.
func (h *Hub) remove(sub *subscriber, reason string) {
	h.mu.Lock()
	if cur, ok := h.subs[sub.id]; ok && cur == sub {
		delete(h.subs, sub.id)
	}
	h.mu.Unlock()

	if sub.teardown() {
		metrics.StreamSubscribers.Dec()
		metrics.StreamSubscribersDropped.WithLabelValues(reason).Inc()
		logging.Debug().Uint64("subscriber_id", sub.id).Str("reason", reason).Msg("stream subscriber removed")
	}
}

// snapshot returns the open subscribers ordered by id.
func (h *Hub) snapshot() []*subscriber {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	return subs
}

// Publish serializes payload once and offers the frame to every open
// subscriber. Subscribers whose sink fails are removed.
func (h *Hub) Publish(event string, payload any) {
	frame, err := NewFrame(event, payload)
	if err != nil {
		logging.Warn().Err(err).Str("event", event).Msg("failed to encode stream event")
		return
	}
	h.broadcast(frame)
}

func (h *Hub) broadcast(frame Frame) {
	for _, sub := range h.snapshot() {
		if sub.closed.Load() {
			continue
		}
		if err := sub.sink.Send(frame); err != nil {
			h.remove(sub, dropWriteFailed)
			continue
		}
		metrics.StreamFramesSent.WithLabelValues(frame.Event).Inc()
	}
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// RunWithContext sends heartbeats until ctx is canceled, then closes every
// subscriber. It is designed to run as a supervised service.
func (h *Hub) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	pingFrame := Frame{Event: EventPing, Data: []byte("{}")}
	for {
		select {
		case <-ctx.Done():
			closed := h.closeAll()
			logging.Info().
				Str("component", "stream-hub").
				Int("subscribers_closed", closed).
				Msg("stream hub stopped")
			return ctx.Err()
		case <-ticker.C:
			h.broadcast(pingFrame)
		}
	}
}

// closeAll tears down every subscriber and returns how many there were.
func (h *Hub) closeAll() int {
	subs := h.snapshot()
	for _, sub := range subs {
		h.remove(sub, dropShutdown)
	}
	return len(subs)
}
