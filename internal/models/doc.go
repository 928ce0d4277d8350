// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package models defines data structures shared across APWatch.

Key Components:

  - Device: local mirror of a managed access point
  - StatusHistory: one entry per observed status transition
  - Token: the singleton access token for the remote platform
  - Network, RemoteDevice: normalized inventory fetched from the remote platform
  - SyncReport, PingReport: results of reconciliation and dry-run inventory
  - APIResponse: standard HTTP response envelope

Coordinates use (0,0) as the "not yet assigned" sentinel. HasCoordinates
reports whether a device has left that state.
*/
package models
