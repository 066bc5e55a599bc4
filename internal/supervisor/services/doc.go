// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package services provides suture.Service wrappers for Budtender components.

Each wrapper turns a component lifecycle into suture's context-aware Serve
method and names itself through fmt.Stringer for supervisor logs.

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine and
context cancellation triggers Shutdown with a bounded timeout.

EventLogGCService runs value log garbage collection on the event log's
GCInterval. Errors are logged and the loop keeps running; once the log is
closed the service returns suture.ErrDoNotRestart.

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	tree.AddDataService(services.NewEventLogGCService(events, logger))
*/
package services
