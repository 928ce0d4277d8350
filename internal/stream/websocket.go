// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package stream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/apwatch/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// WebSocketSink delivers frames over a WebSocket connection as JSON text
// messages of the form {"event": name, "data": payload}.
type WebSocketSink struct {
	conn  *websocket.Conn
	queue *QueueSink
}

// NewWebSocketSink wraps an upgraded connection.
func NewWebSocketSink(conn *websocket.Conn, size int) *WebSocketSink {
	return &WebSocketSink{conn: conn, queue: NewQueueSink(size)}
}

// Send implements Sink.
func (w *WebSocketSink) Send(f Frame) error { return w.queue.Send(f) }

// Close implements Sink.
func (w *WebSocketSink) Close() { w.queue.Close() }

// Serve pumps frames to the connection until the client goes away, a write
// fails, the hub closes the sink, or ctx is done. unsubscribe is called on
// every exit path that the hub did not initiate.
func (w *WebSocketSink) Serve(ctx context.Context, unsubscribe func()) {
	defer func() {
		unsubscribe()
		_ = w.conn.Close()
	}()

	clientGone := make(chan struct{})
	go w.readPump(clientGone)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-clientGone:
			return
		case <-w.queue.Done():
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		case f := <-w.queue.Frames():
			msg, err := f.JSON()
			if err != nil {
				logging.Warn().Err(err).Str("event", f.Event).Msg("failed to encode websocket frame")
				continue
			}
			if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logging.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and signals when the connection ends.
func (w *WebSocketSink) readPump(clientGone chan<- struct{}) {
	defer close(clientGone)

	w.conn.SetReadLimit(maxMessageSize)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Msg("unexpected websocket close")
			}
			return
		}
	}
}
