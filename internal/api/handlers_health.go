// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/budtender/internal/middleware"
)

// readinessTimeout bounds each dependency ping.
const readinessTimeout = 2 * time.Second

// HealthLive handles GET /api/v1/health/live.
// The process is alive if it can answer; no dependency is checked.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready.
// Every readiness check is pinged; any failure answers 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	checks := make(map[string]string, len(h.checks))
	ready := true
	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		err := c.Ping(ctx)
		cancel()
		if err != nil {
			ready = false
			checks[c.Name] = err.Error()
			continue
		}
		checks[c.Name] = "ok"
	}

	data := map[string]interface{}{
		"status": "ready",
		"checks": checks,
	}
	if !ready {
		data["status"] = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, &APIResponse{
			Status: "error",
			Data:   data,
			Metadata: Metadata{
				Timestamp:   time.Now().UTC(),
				QueryTimeMS: time.Since(start).Milliseconds(),
			},
			Error: &APIError{
				Code:    ErrCodeServiceUnavailable,
				Message: "Service not ready",
			},
		})
		return
	}

	respondOK(w, r, http.StatusOK, data, start)
}

// PriceCacheStats is the price cache section of /stats.
type PriceCacheStats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	Capacity  int     `json:"capacity"`
	HitRate   float64 `json:"hit_rate"`
}

// StatsResponse is the data of GET /api/v1/stats.
type StatsResponse struct {
	Uptime       string                     `json:"uptime"`
	PriceCache   PriceCacheStats            `json:"price_cache"`
	BreakerState string                     `json:"breaker_state"`
	EventAppends int64                      `json:"event_appends"`
	Endpoints    []middleware.EndpointStats `json:"endpoints"`
}

// Stats handles GET /api/v1/stats: cache, breaker and latency counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	cs := h.prices.CacheStats()
	pc := PriceCacheStats{
		Hits:      cs.Hits,
		Misses:    cs.Misses,
		Evictions: cs.Evictions,
		Size:      cs.Size,
		Capacity:  cs.Capacity,
	}
	if total := cs.Hits + cs.Misses; total > 0 {
		pc.HitRate = float64(cs.Hits) / float64(total)
	}

	endpoints := []middleware.EndpointStats{}
	if h.perfMon != nil {
		endpoints = h.perfMon.Stats()
	}

	respondOK(w, r, http.StatusOK, StatsResponse{
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		PriceCache:   pc,
		BreakerState: h.prices.BreakerState(),
		EventAppends: h.events.Appends(),
		Endpoints:    endpoints,
	}, start)
}
