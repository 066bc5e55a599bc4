// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package api

import (
	"net/http"
	"time"
)

// PriceResponse is the data of GET /prices/{productID}.
type PriceResponse struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Price     float64 `json:"price"`
	Refreshed bool    `json:"refreshed"`
}

// Price handles GET /api/v1/prices/{productID}?variantId=&refresh=.
// refresh=true skips the cached value and reloads it from the catalog.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q, err := parsePriceQuery(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var price float64
	if q.Refresh {
		price, err = h.prices.Refresh(r.Context(), q.ProductID, q.VariantID)
	} else {
		price, err = h.prices.Lookup(r.Context(), q.ProductID, q.VariantID)
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondOK(w, r, http.StatusOK, PriceResponse{
		ProductID: q.ProductID,
		VariantID: q.VariantID,
		Price:     price,
		Refreshed: q.Refresh,
	}, start)
}
