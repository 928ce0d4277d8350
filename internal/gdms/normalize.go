// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import (
	"strings"

	"github.com/tomtom215/apwatch/internal/models"
)

// Normalize maps a raw remote device record onto the canonical shape. It
// returns false when no identifier can be resolved; such records cannot be
// reconciled and are dropped.
func Normalize(network models.Network, raw map[string]any) (models.RemoteDevice, bool) {
	idVal, ok := firstPresent(raw, deviceIDKeys)
	if !ok {
		return models.RemoteDevice{}, false
	}
	id := strings.TrimSpace(stringify(idVal))
	if id == "" {
		return models.RemoteDevice{}, false
	}

	dev := models.RemoteDevice{
		NetworkID:   network.ID,
		NetworkName: network.Name,
		DeviceID:    id,
		DeviceName:  "AP-" + id,
		Status:      models.StatusDown,
	}
	if name, ok := raw["name"].(string); ok && strings.TrimSpace(name) != "" {
		dev.DeviceName = name
	}
	if isUpStatus(raw["status"]) {
		dev.Status = models.StatusUp
	}
	if v, ok := firstPresent(raw, latitudeKeys); ok {
		if f, ok := toCoordinate(v); ok {
			dev.Lat = &f
		}
	}
	if v, ok := firstPresent(raw, longitudeKeys); ok {
		if f, ok := toCoordinate(v); ok {
			dev.Lon = &f
		}
	}
	return dev, true
}

// normalizeNetwork maps a raw network record. Networks without an id are
// dropped.
func normalizeNetwork(raw map[string]any) (models.Network, bool) {
	v, ok := raw["id"]
	if !ok || v == nil {
		return models.Network{}, false
	}
	id := strings.TrimSpace(stringify(v))
	if id == "" {
		return models.Network{}, false
	}
	name, _ := raw["networkName"].(string)
	return models.Network{ID: id, Name: name}, true
}
