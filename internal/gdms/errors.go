// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// maxErrorBody is the number of response body characters kept in errors.
const maxErrorBody = 500

// ErrMissingCredentials is wrapped by AuthError when the OAuth URL, client id
// or secret is not configured.
var ErrMissingCredentials = errors.New("gdms credentials not configured")

// AuthError reports a failed credential exchange.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("gdms oauth token failed %d: %s", e.Status, e.Body)
	case e.Err != nil:
		return "gdms oauth token failed: " + e.Err.Error()
	default:
		return "gdms oauth token failed"
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError reports a failed listing call.
type APIError struct {
	Endpoint string
	Status   int
	// Code and Message are set when the remote platform reported a logical
	// error (retCode) in an otherwise successful response.
	Code    string
	Message string
	Body    string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("gdms %s retCode=%s msg=%s", e.Endpoint, e.Code, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("gdms %s %d: %s", e.Endpoint, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("gdms %s: %v", e.Endpoint, e.Err)
	default:
		return "gdms " + e.Endpoint + ": request failed"
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
