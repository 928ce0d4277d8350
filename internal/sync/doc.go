// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package sync reconciles the remote inventory with local device records.

The Engine walks every network reported by the remote platform, fetches its
devices, and merges each one into storage:

  - full mode creates unknown devices, updates name, network and status of
    known ones, and fills in coordinates only for records still at the (0,0)
    sentinel
  - status mode only refreshes status and last-sync time of known devices
    and never creates records

A status transition appends one status-history entry. A failure while
reconciling one device is recorded in the report and does not stop the
run; a failure to list networks or devices aborts it.

The Scheduler runs the engine periodically as a supervised service and
keeps the last report for the HTTP layer. Runs started from HTTP are not
serialized against scheduled runs; overlapping runs are last-write-wins.
*/
package sync
