// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkFloatPtr(t *testing.T, fieldName string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s: expected %v, got nil", fieldName, want)
		return
	}
	if *got != want {
		t.Errorf("%s: expected %v, got %v", fieldName, want, *got)
	}
}

func checkFloatPtrNil(t *testing.T, fieldName string, got *float64) {
	t.Helper()
	if got != nil {
		t.Errorf("%s: expected nil, got %v", fieldName, *got)
	}
}

// decodeRaw decodes a JSON object the same way the client does.
func decodeRaw(t *testing.T, s string) map[string]any {
	t.Helper()
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return raw
}
