// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/budtender/internal/logging"
	"github.com/tomtom215/budtender/internal/recommend"
)

// RecommendationsResponse is the data of both ranking endpoints.
type RecommendationsResponse struct {
	StoreID   string              `json:"store_id"`
	UserID    string              `json:"user_id,omitempty"`
	ProductID string              `json:"product_id,omitempty"`
	Products  []recommend.Product `json:"products"`
	Count     int                 `json:"count"`
}

// ForYou handles GET /api/v1/recommendations/for-you.
//
// Query parameters:
//   - storeId (required)
//   - userId (optional; empty returns the store's most purchased products)
//   - limit (optional; 0 or absent uses the configured default)
func (h *Handler) ForYou(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q, err := parseForYouQuery(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	if q.UserID != "" {
		ctx = logging.ContextWithUserID(ctx, q.UserID)
	}

	products, err := h.recommender.ForYou(ctx, recommend.ForYouRequest{
		UserID:  q.UserID,
		StoreID: q.StoreID,
		Limit:   q.Limit,
	})
	if err != nil {
		respondServiceError(w, r.WithContext(ctx), err)
		return
	}

	respondOK(w, r, http.StatusOK, RecommendationsResponse{
		StoreID:  q.StoreID,
		UserID:   q.UserID,
		Products: products,
		Count:    len(products),
	}, start)
}

// Related handles GET /api/v1/recommendations/related/{productID}.
// An unknown product yields an empty list, not 404.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q, err := parseRelatedQuery(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	products, err := h.recommender.RelatedTo(r.Context(), recommend.RelatedRequest{
		ProductID: q.ProductID,
		StoreID:   q.StoreID,
		Limit:     q.Limit,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondOK(w, r, http.StatusOK, RecommendationsResponse{
		StoreID:   q.StoreID,
		ProductID: q.ProductID,
		Products:  products,
		Count:     len(products),
	}, start)
}
