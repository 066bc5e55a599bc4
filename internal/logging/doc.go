// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

// Package logging provides centralized zerolog-based logging for Budtender.
//
// A global logger is configured once from main with Init. Components derive
// child loggers with WithComponent or With().Str("component", ...), and HTTP
// handlers use Ctx to pick up request_id and user_id from the request context.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Price lookup failed")
//
// SlogHandler bridges zerolog to log/slog for libraries that take a
// *slog.Logger, such as sutureslog in the supervisor tree.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
