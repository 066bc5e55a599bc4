// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8420/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Database Metrics:
  - duckdb_query_duration_seconds: Catalog query time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed catalog queries (counter)
    Labels: operation, table, error_type

Recommendation Metrics:
  - recommendation_requests_total: Ranking calls (counter)
    Labels: kind (for_you, related_to), result (success, error)
  - recommendation_duration_seconds: Ranking latency (histogram)
    Labels: kind
  - recommendation_result_size: Products returned per call (histogram)
    Labels: kind

Price Cache Metrics:
  - price_cache_hits_total: Fresh reads (counter)
  - price_cache_misses_total: Reads served by the source (counter)
    Labels: reason (absent_or_stale, refresh)
  - price_cache_evictions_total: LRU capacity evictions (counter)
  - price_cache_entries: Present entries, fresh or stale (gauge)
  - price_source_duration_seconds: Authoritative lookup latency (histogram)
    Labels: result (success, not_found, error)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Calls through the breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
    Labels: name
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

Event Log Metrics:
  - event_log_appends_total: Appended user events (counter)
    Labels: type
  - event_log_gc_runs_total: Value log GC passes (counter)
    Labels: result (rewritten, nothing, error)

# Example PromQL

Price cache hit ratio over 5 minutes:

	rate(price_cache_hits_total[5m]) /
	  (rate(price_cache_hits_total[5m]) + sum(rate(price_cache_misses_total[5m])))

p95 for-you latency:

	histogram_quantile(0.95, rate(recommendation_duration_seconds_bucket{kind="for_you"}[5m]))

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
