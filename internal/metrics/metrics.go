// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for production observability:
// - Catalog query performance (DuckDB)
// - API endpoint latency and throughput
// - Recommendation rankings
// - Price cache efficiency and the price source circuit breaker
// - User event log

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of ranking calls",
		},
		[]string{"kind", "result"}, // kind: "for_you", "related_to"; result: "success", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Ranking latency in seconds, including store fetches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	RecommendationResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_size",
			Help:    "Number of products returned per ranking call",
			Buckets: []float64{0, 1, 4, 8, 12, 25, 50, 100},
		},
		[]string{"kind"},
	)

	// Price Cache Metrics
	PriceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_cache_hits_total",
			Help: "Total number of fresh price cache reads",
		},
	)

	PriceCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_misses_total",
			Help: "Total number of price cache reads that went to the source",
		},
		[]string{"reason"}, // reason: "absent_or_stale", "refresh"
	)

	PriceCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_cache_evictions_total",
			Help: "Total number of LRU capacity evictions",
		},
	)

	PriceCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "price_cache_entries",
			Help: "Current number of physically present price entries, fresh or stale",
		},
	)

	PriceSourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "price_source_duration_seconds",
			Help:    "Latency of authoritative price lookups",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"}, // result: "success", "not_found", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Log Metrics
	EventLogAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_log_appends_total",
			Help: "Total number of user events appended",
		},
		[]string{"type"},
	)

	EventLogGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_log_gc_runs_total",
			Help: "Total number of value log GC passes",
		},
		[]string{"result"}, // result: "rewritten", "nothing", "error"
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one ForYou or RelatedTo call.
func RecordRecommendation(kind string, returned int, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RecommendationRequests.WithLabelValues(kind, result).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err == nil {
		RecommendationResultSize.WithLabelValues(kind).Observe(float64(returned))
	}
}

// RecordPriceCacheHit records a fresh cached price read.
func RecordPriceCacheHit() {
	PriceCacheHits.Inc()
}

// RecordPriceCacheMiss records a read that fell through to the source.
func RecordPriceCacheMiss(reason string) {
	PriceCacheMisses.WithLabelValues(reason).Inc()
}

// RecordPriceCacheEviction records an LRU capacity eviction.
func RecordPriceCacheEviction() {
	PriceCacheEvictions.Inc()
}

// UpdatePriceCacheSize sets the current entry count.
func UpdatePriceCacheSize(size int) {
	PriceCacheSize.Set(float64(size))
}

// RecordPriceSource records an authoritative price lookup. notFound is the
// sentinel the caller treats as "no such price".
func RecordPriceSource(duration time.Duration, err, notFound error) {
	result := "success"
	switch {
	case err == nil:
	case notFound != nil && errors.Is(err, notFound):
		result = "not_found"
	default:
		result = "error"
	}
	PriceSourceDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordCircuitBreakerRequest records the outcome of a call through a breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition records a state change and updates the state gauge.
func RecordCircuitBreakerTransition(name, from, to string, toValue float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(toValue)
}

// RecordEventAppend records a user event written to the event log.
func RecordEventAppend(eventType string) {
	EventLogAppends.WithLabelValues(eventType).Inc()
}

// RecordEventLogGC records the outcome of a value log GC pass.
func RecordEventLogGC(result string) {
	EventLogGCRuns.WithLabelValues(result).Inc()
}
