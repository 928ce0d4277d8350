// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

// Package validation validates API request bodies with go-playground/validator.
//
// A single validator instance is shared by all handlers. Field names in
// error messages use the json tag of the field, so clients see the same
// names they sent:
//
//	req := validation.DeviceUpdateRequest{Name: &name}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Code and apiErr.Message
//	}
package validation
