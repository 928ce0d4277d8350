// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package api

import (
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/models"
	"github.com/tomtom215/apwatch/internal/stream"
	"github.com/tomtom215/apwatch/internal/validation"
)

// csvHeader is the column order of the device export.
var csvHeader = []string{
	"id", "apId", "name", "networkId", "networkName", "status",
	"lat", "lon", "description", "lastSyncAt", "updatedAt",
}

// ListDevices returns devices ordered by id. Metadata.total_count holds the
// number of matches before take is applied.
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filter, err := deviceFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, validation.ErrCodeValidation, err.Error(), nil)
		return
	}

	devices, total, err := h.db.ListDevices(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   devices,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			TotalCount:  &total,
		},
	})
}

// ExportDevicesCSV writes the filtered device list as ';'-separated CSV.
func (h *Handler) ExportDevicesCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := deviceFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, validation.ErrCodeValidation, err.Error(), nil)
		return
	}

	devices, _, err := h.db.ListDevices(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="devices.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := writeDevicesCSV(w, devices); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write CSV export")
	}
}

func writeDevicesCSV(out io.Writer, devices []models.Device) error {
	cw := csv.NewWriter(out)
	cw.Comma = ';'
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range devices {
		d := &devices[i]
		lastSync := ""
		if d.LastSyncAt != nil {
			lastSync = d.LastSyncAt.UTC().Format(time.RFC3339)
		}
		if err := cw.Write([]string{
			strconv.FormatInt(d.ID, 10),
			d.APID,
			d.Name,
			d.NetworkID,
			d.NetworkName,
			string(d.Status),
			strconv.FormatFloat(d.Lat, 'f', -1, 64),
			strconv.FormatFloat(d.Lon, 'f', -1, 64),
			d.Description,
			lastSync,
			d.UpdatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GetDevice returns one device.
func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := deviceIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	device, err := h.db.GetDevice(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, device, start)
}

// UpdateDevice applies a partial edit of name, status or description. A
// status change is recorded in the device history.
func (h *Handler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := deviceIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body", err)
		return
	}
	var req validation.DeviceUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, validation.ErrCodeValidation, "Invalid JSON body", nil)
		return
	}
	req.Normalize()
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondServiceError(w, verr)
		return
	}
	if req.Name == nil && req.Status == nil && req.Description == nil {
		respondServiceError(w, ErrNothingToUpdate)
		return
	}

	before, err := h.db.GetDevice(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	update := models.DeviceUpdate{Name: req.Name, Description: req.Description}
	if req.Status != nil {
		status := models.DeviceStatus(*req.Status)
		update.Status = &status
	}

	device, err := h.db.UpdateDevice(r.Context(), id, update)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if update.Status != nil && *update.Status != before.Status {
		if err := h.db.AppendStatusHistory(r.Context(), id, *update.Status); err != nil {
			respondServiceError(w, err)
			return
		}
		h.publish(stream.EventStatusChanged, map[string]any{"id": id, "status": *update.Status})
	} else {
		h.publish(stream.EventDeviceUpdated, map[string]any{"id": id})
	}

	respondSuccess(w, device, start)
}

// UpdateDeviceCoordinates sets lat, lon and description. Coordinates may be
// sent as numbers or as strings with ',' or '.' as decimal separator.
func (h *Handler) UpdateDeviceCoordinates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := deviceIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body", err)
		return
	}
	req, err := validation.ParseCoordinatesRequest(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, validation.ErrCodeValidation, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondServiceError(w, verr)
		return
	}
	if req.Lat == nil && req.Lon == nil && req.Description == nil {
		respondServiceError(w, ErrNothingToUpdate)
		return
	}

	device, err := h.db.UpdateDevice(r.Context(), id, models.DeviceUpdate{
		Lat:         req.Lat,
		Lon:         req.Lon,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.publish(stream.EventDeviceUpdated, map[string]any{"id": id, "kind": "coords"})
	respondSuccess(w, device, start)
}

// DeleteDevice removes a device and its history and returns the removed
// record.
func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := deviceIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	device, err := h.db.GetDevice(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if err := h.db.DeleteDevice(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	h.publish(stream.EventDeviceDeleted, map[string]any{"id": id})
	respondSuccess(w, device, start)
}

// DeviceHistory returns status transitions newest first.
func (h *Handler) DeviceHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := deviceIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	limit := clamp(getIntParam(r, "limit", defaultHistoryLimit), 1, maxHistoryLimit)

	if _, err := h.db.GetDevice(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	entries, err := h.db.ListStatusHistory(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []models.StatusHistory{}
	}
	respondSuccess(w, entries, start)
}

// Stats returns fleet totals and up/down percentages.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.db.DeviceStats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, stats, start)
}
