// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package services adapts APWatch components to suture.Service.

  - HTTPServerService: *http.Server with graceful shutdown
  - StreamHubService: the event hub heartbeat loop
  - SyncSchedulerService: the periodic reconciliation scheduler
  - BadgerGCService: periodic value log GC for the badger token store

Each wrapper depends on a small interface rather than the concrete type so
it can be tested with hand-written doubles and so this package imports
none of the component packages.
*/
package services
