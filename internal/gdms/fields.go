// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Candidate keys per logical field, highest priority first. Dotted keys walk
// nested objects. The remote schema differs between deployments and firmware
// versions, so the first non-null candidate wins.
var (
	deviceIDKeys = []string{
		"id",
		"apId", "ap_id", "apID",
		"deviceId", "device_id",
		"mac", "MAC", "macAddr", "macAddress",
		"serialNumber", "sn", "SN",
		"uuid", "UUID",
	}

	latitudeKeys = []string{
		"ap_latitude", "latitude", "lat", "Latitude", "Lat",
		"gpsLatitude", "gpsLat", "gps.latitude", "gps.lat",
		"locationLatitude", "location.latitude", "location.lat",
		"position.latitude", "position.lat",
	}

	longitudeKeys = []string{
		"ap_longitude", "longitude", "lng", "Longitude", "Lng",
		"gpsLongitude", "gpsLng", "gps.longitude", "gps.lng",
		"locationLongitude", "location.longitude", "location.lng",
		"position.longitude", "position.lng",
	}
)

// lookup resolves a possibly dotted key in a decoded JSON object.
func lookup(raw map[string]any, key string) (any, bool) {
	if v, ok := raw[key]; ok {
		return v, true
	}
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		return nil, false
	}
	child, ok := raw[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(child, rest)
}

// firstPresent returns the value of the first candidate that is present and
// not JSON null.
func firstPresent(raw map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := lookup(raw, key); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringify renders a scalar JSON value the way it appeared on the wire.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// toCoordinate accepts JSON numbers and numeric strings.
func toCoordinate(v any) (float64, bool) {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toInt reads integer pagination metadata; anything unparseable is 0.
func toInt(v any) int {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

// isUpStatus reports whether the status field equals the numeric sentinel 1.
func isUpStatus(v any) bool {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 1
	case float64:
		return t == 1
	default:
		return false
	}
}
