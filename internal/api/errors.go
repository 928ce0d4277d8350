// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import "errors"

// API error codes.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRemoteAuth      = "REMOTE_AUTH_ERROR"
	ErrCodeRemoteAPI       = "REMOTE_API_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
	ErrCodeStreamingFailed = "STREAMING_UNSUPPORTED"
)

var (
	// ErrNothingToUpdate is returned when a PATCH body carries no known field.
	ErrNothingToUpdate = errors.New("nothing to update")

	// ErrInvalidID is returned for a non-numeric device id.
	ErrInvalidID = errors.New("invalid device id")
)
