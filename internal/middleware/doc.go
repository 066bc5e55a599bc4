// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package middleware provides the HTTP middleware used by the API router.

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it in the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by chi route pattern
  - PerformanceMonitor: sliding window of latencies with percentiles, served by /api/v1/stats

All middleware use the func(http.Handler) http.Handler shape so they plug
straight into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)

Route patterns are read after the handler returns, once chi has finished
routing; requests that match no route are labelled "unmatched".
*/
package middleware
