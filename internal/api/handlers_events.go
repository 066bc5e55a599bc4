// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/budtender/internal/logging"
	"github.com/tomtom215/budtender/internal/recommend"
	"github.com/tomtom215/budtender/internal/validation"
)

// errProductNotFound is returned when an event names an unknown product.
var errProductNotFound = errors.New("product not found")

// RecordEvent handles POST /api/v1/events and returns the stored event with 201.
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxEventBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req EventRequest
	if err := decoder.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", err)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), req.UserID)
	ev := req.toUserEvent()
	if req.ProductID != "" {
		if err := h.fillProductAttributes(ctx, req.ProductID, &ev); err != nil {
			if errors.Is(err, errProductNotFound) {
				respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Product not found", nil)
				return
			}
			respondServiceError(w, r, err)
			return
		}
	}

	stored, err := h.events.Append(ctx, ev)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(ctx).Debug().
		Str("event_id", stored.ID).
		Str("type", string(stored.Type)).
		Msg("Recorded user event")

	respondOK(w, r, http.StatusCreated, stored, start)
}

// fillProductAttributes copies catalog attributes the client left empty.
func (h *Handler) fillProductAttributes(ctx context.Context, productID string, ev *recommend.UserEvent) error {
	p, err := h.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return errProductNotFound
	}
	if ev.Brand == "" {
		ev.Brand = p.Brand
	}
	if ev.StrainType == "" {
		ev.StrainType = p.StrainType
	}
	if len(ev.Terpenes) == 0 {
		ev.Terpenes = append([]string(nil), p.Terpenes...)
	}
	return nil
}
