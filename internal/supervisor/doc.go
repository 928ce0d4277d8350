// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

/*
Package supervisor runs APWatch's long-lived components under a suture/v4
supervisor tree.

	apwatch (root)
	├── data-layer       badger value log GC
	├── messaging-layer  stream hub heartbeat, sync scheduler
	└── api-layer        HTTP server

Services panicking or returning an error are restarted with suture's
failure decay and backoff. Supervisor events are logged through sutureslog
on a slog logger bridged to zerolog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddMessagingService(services.NewStreamHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

The service wrappers live in package services.
*/
package supervisor
