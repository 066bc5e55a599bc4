// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/budtender/internal/recommend"
	"github.com/tomtom215/budtender/internal/validation"
)

// maxLimit is the largest limit accepted on the wire. The engine applies
// its own configured cap below this.
const maxLimit = 1000

// maxEventBodyBytes bounds POST /events bodies.
const maxEventBodyBytes = 64 << 10

// ForYouQuery is the query of GET /recommendations/for-you.
type ForYouQuery struct {
	StoreID string `query:"storeId" validate:"required,identifier"`
	UserID  string `query:"userId" validate:"omitempty,identifier"`
	Limit   int    `query:"limit" validate:"gte=0,lte=1000"`
}

// RelatedQuery is the path and query of GET /recommendations/related/{productID}.
type RelatedQuery struct {
	ProductID string `query:"productID" validate:"required,identifier"`
	StoreID   string `query:"storeId" validate:"required,identifier"`
	Limit     int    `query:"limit" validate:"gte=0,lte=1000"`
}

// PriceQuery is the path and query of GET /prices/{productID}.
type PriceQuery struct {
	ProductID string `query:"productID" validate:"required,identifier"`
	VariantID string `query:"variantId" validate:"omitempty,identifier"`
	Refresh   bool   `query:"refresh"`
}

// EventRequest is the body of POST /events. When ProductID is set, empty
// brand, strain type and terpenes are filled in from the catalog.
type EventRequest struct {
	ID         string     `json:"id" validate:"omitempty,identifier"`
	UserID     string     `json:"user_id" validate:"required,identifier"`
	Type       string     `json:"type" validate:"required,oneof=view favorite purchase"`
	ProductID  string     `json:"product_id" validate:"omitempty,identifier"`
	Brand      string     `json:"brand" validate:"max=128"`
	StrainType string     `json:"strain_type" validate:"max=32"`
	Terpenes   []string   `json:"terpenes" validate:"max=32,dive,required,max=64"`
	CreatedAt  *time.Time `json:"created_at"`
}

// toUserEvent converts the request into the event log's model.
func (req *EventRequest) toUserEvent() recommend.UserEvent {
	ev := recommend.UserEvent{
		ID:         req.ID,
		UserID:     req.UserID,
		Type:       recommend.EventType(req.Type),
		Brand:      req.Brand,
		StrainType: recommend.NormalizeStrainType(req.StrainType),
		Terpenes:   req.Terpenes,
	}
	if req.CreatedAt != nil {
		ev.CreatedAt = req.CreatedAt.UTC()
	}
	return ev
}

// queryError is a malformed query parameter, reported as 400 BAD_REQUEST.
type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("invalid %s parameter %q", e.param, e.value)
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, key string) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &queryError{param: key, value: value}
	}
	return n, nil
}

// boolParam parses an optional boolean query parameter.
func boolParam(r *http.Request, key string) (bool, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &queryError{param: key, value: value}
	}
	return b, nil
}

func parseForYouQuery(r *http.Request) (ForYouQuery, error) {
	limit, err := intParam(r, "limit")
	if err != nil {
		return ForYouQuery{}, err
	}
	q := ForYouQuery{
		StoreID: r.URL.Query().Get("storeId"),
		UserID:  r.URL.Query().Get("userId"),
		Limit:   limit,
	}
	return q, validation.ValidateStruct(&q)
}

func parseRelatedQuery(r *http.Request) (RelatedQuery, error) {
	limit, err := intParam(r, "limit")
	if err != nil {
		return RelatedQuery{}, err
	}
	q := RelatedQuery{
		ProductID: chi.URLParam(r, "productID"),
		StoreID:   r.URL.Query().Get("storeId"),
		Limit:     limit,
	}
	return q, validation.ValidateStruct(&q)
}

func parsePriceQuery(r *http.Request) (PriceQuery, error) {
	refresh, err := boolParam(r, "refresh")
	if err != nil {
		return PriceQuery{}, err
	}
	q := PriceQuery{
		ProductID: chi.URLParam(r, "productID"),
		VariantID: r.URL.Query().Get("variantId"),
		Refresh:   refresh,
	}
	return q, validation.ValidateStruct(&q)
}
