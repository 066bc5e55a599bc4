// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package recommend

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory DataStore. It backs the "memory" storage
// driver and the tests of packages that depend on the engine.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
	events   []UserEvent
	variants map[string]float64
	failure  error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{variants: make(map[string]float64)}
}

// AddProduct inserts or replaces a product by ID.
//
//nolint:gocritic // hugeParam: stored by value
func (m *MemoryStore) AddProduct(p Product) {
	p.StrainType = NormalizeStrainType(string(p.StrainType))

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.products {
		if m.products[i].ID == p.ID {
			m.products[i] = p
			return
		}
	}
	m.products = append(m.products, p)
}

// AddEvent records a user event.
//
//nolint:gocritic // hugeParam: stored by value
func (m *MemoryStore) AddEvent(ev UserEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// SetVariantPrice sets the price of one variant (e.g. "3.5g") of a product.
func (m *MemoryStore) SetVariantPrice(productID, variantID string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variants[productID+"\x00"+variantID] = price
}

// FindPrice returns the variant price when variantID is set and the
// product's base price otherwise.
func (m *MemoryStore) FindPrice(ctx context.Context, productID, variantID string) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(ctx); err != nil {
		return 0, false, err
	}

	if variantID != "" {
		price, ok := m.variants[productID+"\x00"+variantID]
		return price, ok, nil
	}
	for i := range m.products {
		if m.products[i].ID == productID {
			return m.products[i].Price, true, nil
		}
	}
	return 0, false, nil
}

// SetFailure makes every subsequent read return err. Pass nil to clear.
func (m *MemoryStore) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
}

// FindProductsByStore implements DataStore.
func (m *MemoryStore) FindProductsByStore(ctx context.Context, storeID string, limit int) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}

	out := make([]Product, 0)
	for i := range m.products {
		if m.products[i].StoreID == storeID {
			out = append(out, m.products[i])
		}
	}
	sortByPopularity(out)
	return truncate(out, limit), nil
}

// FindProductByID implements DataStore.
func (m *MemoryStore) FindProductByID(ctx context.Context, productID string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}

	for i := range m.products {
		if m.products[i].ID == productID {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

// FindRecentUserEvents implements DataStore.
func (m *MemoryStore) FindRecentUserEvents(ctx context.Context, userID string, limit int) ([]UserEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}

	out := make([]UserEvent, 0)
	for i := range m.events {
		if m.events[i].UserID == userID {
			out = append(out, m.events[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return truncate(out, limit), nil
}

// FindSiblingProducts implements DataStore.
//
//nolint:gocritic // hugeParam: match passed by value for immutability
func (m *MemoryStore) FindSiblingProducts(ctx context.Context, storeID, excludeID string, match SiblingMatch, limit int) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}

	terpenes := toSet(match.Terpenes)
	out := make([]Product, 0)
	for i := range m.products {
		p := &m.products[i]
		if p.StoreID != storeID || p.ID == excludeID {
			continue
		}
		if matchesSibling(p, &match, terpenes) {
			out = append(out, *p)
		}
	}
	sortByPopularity(out)
	return truncate(out, limit), nil
}

// sortByPopularity orders products by PurchasesLast30d descending, then ID.
func sortByPopularity(products []Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].PurchasesLast30d != products[j].PurchasesLast30d {
			return products[i].PurchasesLast30d > products[j].PurchasesLast30d
		}
		return products[i].ID < products[j].ID
	})
}

func matchesSibling(p *Product, match *SiblingMatch, terpenes map[string]struct{}) bool {
	if match.Brand != "" && p.Brand == match.Brand {
		return true
	}
	if match.StrainType != "" && p.StrainType == match.StrainType {
		return true
	}
	for _, t := range p.Terpenes {
		if _, ok := terpenes[t]; ok {
			return true
		}
	}
	return false
}

func (m *MemoryStore) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.failure
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
