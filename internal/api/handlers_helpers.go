// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/apwatch/internal/database"
	"github.com/tomtom215/apwatch/internal/gdms"
	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/models"
	"github.com/tomtom215/apwatch/internal/validation"
)

const (
	defaultReportErrorLimit = 50

	defaultDeviceTake = 5000
	maxDeviceTake     = database.MaxDeviceListLimit

	defaultHistoryLimit = 50
	maxHistoryLimit     = 500

	// maxRequestBody bounds PATCH bodies.
	maxRequestBody = 64 << 10
)

// sanitizeLogValue replaces control characters so client input cannot
// forge log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondAPIError(w, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(apiErr.Code)).
			Int("status", status).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: apiErr,
	})
}

// respondServiceError maps domain errors to HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	var (
		authErr *gdms.AuthError
		remErr  *gdms.APIError
		valErr  *validation.RequestValidationError
	)
	switch {
	case errors.As(err, &authErr):
		respondError(w, http.StatusBadGateway, ErrCodeRemoteAuth, authErr.Error(), err)
	case errors.As(err, &remErr):
		respondError(w, http.StatusBadGateway, ErrCodeRemoteAPI, remErr.Error(), err)
	case errors.As(err, &valErr):
		respondAPIError(w, http.StatusBadRequest, valErr.ToAPIError(), nil)
	case errors.Is(err, database.ErrDeviceNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Device not found", nil)
	case errors.Is(err, ErrNothingToUpdate), errors.Is(err, database.ErrEmptyUpdate):
		respondError(w, http.StatusBadRequest, validation.ErrCodeValidation, "Nothing to update", nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
	}
}

// deviceIDParam parses the {id} route parameter.
func deviceIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// deviceFilterFromQuery reads the list/export filters.
func deviceFilterFromQuery(r *http.Request) (models.DeviceFilter, error) {
	q := r.URL.Query()
	f := models.DeviceFilter{
		Query:   strings.TrimSpace(q.Get("q")),
		Unsaved: q.Get("unsaved") == "1",
		Placed:  q.Get("placed") == "1",
		Limit:   clamp(getIntParam(r, "take", defaultDeviceTake), 1, maxDeviceTake),
	}
	if s := strings.ToUpper(strings.TrimSpace(q.Get("status"))); s != "" {
		status := models.DeviceStatus(s)
		if !status.Valid() {
			return f, fmt.Errorf("status must be UP or DOWN")
		}
		f.Status = status
	}
	return f, nil
}
