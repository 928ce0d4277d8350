// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package stream

import (
	"errors"
	"sync"
)

// ErrSinkFull is returned when a sink cannot accept a frame immediately.
var ErrSinkFull = errors.New("stream sink full")

// ErrSinkClosed is returned by Send after Close.
var ErrSinkClosed = errors.New("stream sink closed")

// Sink receives frames for one subscriber. Send must not block. Close is
// called by the hub exactly once when the subscriber is torn down.
type Sink interface {
	Send(f Frame) error
	Close()
}

// DefaultQueueSize is the QueueSink buffer used when none is given.
const DefaultQueueSize = 64

// QueueSink buffers frames for a writer goroutine such as an HTTP handler.
type QueueSink struct {
	mu     sync.Mutex
	closed bool
	frames chan Frame
	done   chan struct{}
}

// NewQueueSink creates a sink holding up to size pending frames.
func NewQueueSink(size int) *QueueSink {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &QueueSink{
		frames: make(chan Frame, size),
		done:   make(chan struct{}),
	}
}

// Send enqueues f or fails when the buffer is full.
func (q *QueueSink) Send(f Frame) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrSinkClosed
	}
	select {
	case q.frames <- f:
		return nil
	default:
		return ErrSinkFull
	}
}

// Close stops the sink. Pending frames stay readable.
func (q *QueueSink) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Frames returns the queue to drain.
func (q *QueueSink) Frames() <-chan Frame { return q.frames }

// Done is closed when the hub has torn the subscriber down.
func (q *QueueSink) Done() <-chan struct{} { return q.done }
