// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package stream

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Event names emitted to subscribers.
const (
	EventConnected     = "connected"
	EventPing          = "ping"
	EventDeviceCreated = "device-created"
	EventDeviceUpdated = "device-updated"
	EventDeviceDeleted = "device-deleted"
	EventStatusChanged = "status-changed"
	EventSyncCompleted = "sync-completed"
)

// Frame is one named event with its JSON payload.
type Frame struct {
	Event string
	Data  json.RawMessage
}

// NewFrame serializes payload into a frame.
func NewFrame(event string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: event, Data: data}, nil
}

// SSE renders the frame in Server-Sent Events format.
func (f Frame) SSE() []byte {
	var b bytes.Buffer
	b.Grow(len(f.Event) + len(f.Data) + 16)
	b.WriteString("event: ")
	b.WriteString(f.Event)
	b.WriteString("\ndata: ")
	b.Write(f.Data)
	b.WriteString("\n\n")
	return b.Bytes()
}

// wireMessage is the WebSocket rendering of a frame.
type wireMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JSON renders the frame as a single JSON object.
func (f Frame) JSON() ([]byte, error) {
	return json.Marshal(wireMessage{Event: f.Event, Data: f.Data})
}
