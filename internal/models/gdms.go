// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package models

import "time"

// Token is the access token for the remote platform. It is replaced
// wholesale on every refresh.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// FreshAt reports whether the token is usable at now with the given skew.
func (t *Token) FreshAt(now time.Time, skew time.Duration) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.ExpiresAt.Add(-skew))
}

// Network is a logical grouping of devices on the remote platform.
type Network struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RemoteDevice is a device as reported by the remote platform after
// normalization. Lat and Lon are nil when the remote record has none.
type RemoteDevice struct {
	NetworkID   string       `json:"networkId"`
	NetworkName string       `json:"networkName"`
	DeviceID    string       `json:"deviceId"`
	DeviceName  string       `json:"deviceName"`
	Status      DeviceStatus `json:"status"`
	Lat         *float64     `json:"lat,omitempty"`
	Lon         *float64     `json:"lon,omitempty"`
}
