// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StrainType classifies a product's cannabis strain.
// Unknown values are carried verbatim; the engine only compares for equality.
type StrainType string

const (
	// StrainIndica is an indica-dominant strain.
	StrainIndica StrainType = "indica"
	// StrainSativa is a sativa-dominant strain.
	StrainSativa StrainType = "sativa"
	// StrainHybrid is a hybrid strain.
	StrainHybrid StrainType = "hybrid"
	// StrainCBD is a CBD-dominant product.
	StrainCBD StrainType = "cbd"
)

// NormalizeStrainType lowercases and trims a strain type so catalog rows
// and user events compare equal regardless of source casing.
func NormalizeStrainType(s string) StrainType {
	return StrainType(strings.ToLower(strings.TrimSpace(s)))
}

// EventType classifies a user interaction with a product.
type EventType string

const (
	// EventView is recorded when a user opens a product page.
	EventView EventType = "view"
	// EventFavorite is recorded when a user favorites a product.
	EventFavorite EventType = "favorite"
	// EventPurchase is recorded when a user completes an order line.
	EventPurchase EventType = "purchase"
)

// ParseEventType parses a lowercase event type name.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(strings.ToLower(strings.TrimSpace(s))); t {
	case EventView, EventFavorite, EventPurchase:
		return t, nil
	default:
		return "", fmt.Errorf("unknown event type %q", s)
	}
}

// Product is a read-only catalog snapshot of a product in one store.
type Product struct {
	// ID is the catalog product identifier.
	ID string `json:"id"`

	// StoreID is the dispensary that stocks the product.
	StoreID string `json:"store_id"`

	Brand      string     `json:"brand"`
	StrainType StrainType `json:"strain_type"`

	// Terpenes lists dominant terpene names (e.g. "myrcene", "limonene").
	Terpenes []string `json:"terpenes"`

	// PurchasesLast30d is the store-level popularity signal.
	PurchasesLast30d int `json:"purchases_last_30d"`

	Price float64 `json:"price"`
}

// UserEvent is a historical interaction carrying the product attributes
// at the time of the event.
type UserEvent struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Type       EventType  `json:"type"`
	Brand      string     `json:"brand,omitempty"`
	StrainType StrainType `json:"strain_type,omitempty"`
	Terpenes   []string   `json:"terpenes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ScoredProduct pairs a candidate with its ranking score.
// It never leaves the engine.
type ScoredProduct struct {
	Product Product
	Score   float64
}

// ForYouRequest asks for personalized rankings in a store.
type ForYouRequest struct {
	// UserID is optional. Empty means anonymous and yields the popularity baseline.
	UserID  string
	StoreID string

	// Limit is the number of products to return. 0 uses the configured default.
	Limit int
}

// RelatedRequest asks for products similar to ProductID in a store.
type RelatedRequest struct {
	ProductID string
	StoreID   string
	Limit     int
}

// SiblingMatch is the OR filter used to pre-select related candidates:
// same brand, same strain type, or at least one shared terpene.
type SiblingMatch struct {
	Brand      string
	StrainType StrainType
	Terpenes   []string
}

// CatalogStore is the read-only product catalog.
type CatalogStore interface {
	// FindProductsByStore returns up to limit products ordered by
	// PurchasesLast30d descending.
	FindProductsByStore(ctx context.Context, storeID string, limit int) ([]Product, error)

	// FindProductByID returns nil, nil when the product does not exist.
	FindProductByID(ctx context.Context, productID string) (*Product, error)

	// FindSiblingProducts returns up to limit products in storeID, other than
	// excludeID, that satisfy match.
	FindSiblingProducts(ctx context.Context, storeID, excludeID string, match SiblingMatch, limit int) ([]Product, error)
}

// EventStore is the read side of user activity.
type EventStore interface {
	// FindRecentUserEvents returns up to limit events, newest first.
	FindRecentUserEvents(ctx context.Context, userID string, limit int) ([]UserEvent, error)
}

// DataStore is the read-only view of catalog and activity data the engine needs.
// It is implemented by MemoryStore and by CompositeStore.
type DataStore interface {
	CatalogStore
	EventStore
}

// Observer receives one callback per ranking call.
type Observer interface {
	ObserveRecommendation(kind string, returned int, duration time.Duration, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(kind string, returned int, duration time.Duration, err error)

// ObserveRecommendation calls f.
func (f ObserverFunc) ObserveRecommendation(kind string, returned int, duration time.Duration, err error) {
	f(kind, returned, duration, err)
}
