// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package supervisor provides process supervision using suture v4.

The tree has two layers:

	RootSupervisor ("budtender")
	├── DataSupervisor ("data-layer")
	│   └── EventLogGCService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; a failing layer does not
take the other one down. Canceling the context passed to Serve shuts every
service down within TreeConfig.ShutdownTimeout.

Supervisor events (panics, restarts, backoff) are logged with sutureslog
over the zerolog slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.WithComponent("supervisor")), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewEventLogGCService(log, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	err = tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
