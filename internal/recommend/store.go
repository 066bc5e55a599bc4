// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package recommend

import (
	"context"
	"errors"
)

// CompositeStore serves catalog reads and event reads from separate backends,
// typically DuckDB for the catalog and the BadgerDB event log for activity.
type CompositeStore struct {
	CatalogStore
	events EventStore
}

// NewCompositeStore joins a catalog and an event source into one DataStore.
func NewCompositeStore(catalog CatalogStore, events EventStore) (*CompositeStore, error) {
	if catalog == nil {
		return nil, errors.New("catalog store is required")
	}
	if events == nil {
		return nil, errors.New("event store is required")
	}
	return &CompositeStore{CatalogStore: catalog, events: events}, nil
}

// FindRecentUserEvents implements EventStore.
func (c *CompositeStore) FindRecentUserEvents(ctx context.Context, userID string, limit int) ([]UserEvent, error) {
	return c.events.FindRecentUserEvents(ctx, userID, limit)
}
