// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package api provides the HTTP interface of the recommendation service.

Routes (chi):

	GET  /api/v1/recommendations/for-you?storeId=&userId=&limit=
	GET  /api/v1/recommendations/related/{productID}?storeId=&limit=
	GET  /api/v1/prices/{productID}?variantId=&refresh=
	POST /api/v1/events
	GET  /api/v1/stats
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /metrics

Every JSON response uses the same envelope:

	{
	  "status": "success" | "error",
	  "data": ...,
	  "metadata": {"timestamp": "...", "query_time_ms": 3, "request_id": "..."},
	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}
	}

Query parameters and event bodies are validated with go-playground/validator
through the validation package. Domain errors map to status codes:

  - recommend.ErrInvalidRequest, eventlog.ErrInvalidEvent, validation failures: 400
  - pricing.ErrPriceNotFound, unknown event product: 404
  - pricing.ErrSourceUnavailable (breaker open), eventlog.ErrClosed: 503
  - context.DeadlineExceeded: 504
  - anything else: 500

Middleware order: RequestID, RealIP, Recoverer, CORS, PrometheusMetrics and
the PerformanceMonitor globally; then rate limiting, the request timeout and
gzip on /api/v1 (health checks are exempt from the limiter).
*/
package api
