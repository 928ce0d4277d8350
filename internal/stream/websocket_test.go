// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func newWebSocketServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		sink := NewWebSocketSink(conn, 8)
		_, unsubscribe := hub.Subscribe(sink)
		sink.Serve(context.Background(), unsubscribe)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readWireMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := hub.Count(); got != want {
		t.Fatalf("expected %d subscribers, got %d", want, got)
	}
}

func TestWebSocketSink_DeliversFrames(t *testing.T) {
	t.Parallel()

	hub := NewHub(time.Hour)
	srv := newWebSocketServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msg := readWireMessage(t, conn)
	if msg.Event != EventConnected {
		t.Fatalf("expected connected, got %q", msg.Event)
	}
	waitForCount(t, hub, 1)

	hub.Publish(EventDeviceCreated, map[string]any{"id": 4, "apId": "ab"})
	msg = readWireMessage(t, conn)
	if msg.Event != EventDeviceCreated {
		t.Fatalf("expected device-created, got %q", msg.Event)
	}
	if string(msg.Data) != `{"apId":"ab","id":4}` {
		t.Errorf("unexpected payload %s", msg.Data)
	}
}

func TestWebSocketSink_ClientDisconnectUnsubscribes(t *testing.T) {
	t.Parallel()

	hub := NewHub(time.Hour)
	srv := newWebSocketServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readWireMessage(t, conn)
	waitForCount(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	waitForCount(t, hub, 0)
}
