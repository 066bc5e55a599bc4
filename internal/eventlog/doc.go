// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

// Package eventlog persists shopper views, favorites and purchases in BadgerDB
// and serves the recent-activity window used by the ForYou ranking.
//
// Entries are JSON-encoded recommend.UserEvent values. Retention is enforced
// with BadgerDB TTLs and disk space is reclaimed by periodic value log GC
// (see supervisor/services.EventLogGCService).
package eventlog
