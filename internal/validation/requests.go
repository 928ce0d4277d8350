// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// DeviceUpdateRequest is the body of PATCH /devices/{id}. Absent fields are
// left unchanged; an empty description clears it.
type DeviceUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=80"`
	Status      *string `json:"status" validate:"omitempty,device_status"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// Normalize trims string fields in place.
func (r *DeviceUpdateRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Status != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		r.Description = &v
	}
}

// CoordinatesRequest is the validated form of PATCH /devices/{id}/coords.
type CoordinatesRequest struct {
	Lat         *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon         *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
}

// rawCoordinatesRequest accepts coordinates as numbers or strings.
type rawCoordinatesRequest struct {
	Lat         json.RawMessage `json:"lat"`
	Lon         json.RawMessage `json:"lon"`
	Description *string         `json:"description"`
}

// ParseCoordinatesRequest decodes a coordinates body. Coordinates may be
// JSON numbers or strings using either '.' or ',' as decimal separator;
// null, absent and empty strings leave the axis unchanged.
func ParseCoordinatesRequest(body []byte) (*CoordinatesRequest, error) {
	var raw rawCoordinatesRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	lat, err := parseCoordinate(raw.Lat)
	if err != nil {
		return nil, fmt.Errorf("lat: %w", err)
	}
	lon, err := parseCoordinate(raw.Lon)
	if err != nil {
		return nil, fmt.Errorf("lon: %w", err)
	}

	req := &CoordinatesRequest{Lat: lat, Lon: lon}
	if raw.Description != nil {
		d := strings.TrimSpace(*raw.Description)
		req.Description = &d
	}
	return req, nil
}

func parseCoordinate(raw json.RawMessage) (*float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil, err
		}
		s = strings.ReplaceAll(strings.TrimSpace(str), ",", ".")
		if s == "" {
			return nil, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("not a number: %s", s)
	}
	return &f, nil
}
