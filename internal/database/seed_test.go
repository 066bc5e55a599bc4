// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/budtender/internal/recommend"
)

func TestSeedDemoCatalog(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	n, err := db.SeedDemoCatalog(ctx)
	if err != nil {
		t.Fatalf("SeedDemoCatalog() error = %v", err)
	}
	if n != len(demoCatalog) {
		t.Errorf("SeedDemoCatalog() = %d, want %d", n, len(demoCatalog))
	}

	products, err := db.FindProductsByStore(ctx, DemoStoreID, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != len(demoCatalog) {
		t.Errorf("demo store has %d products, want %d", len(products), len(demoCatalog))
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].PurchasesLast30d < products[i].PurchasesLast30d {
			t.Errorf("demo products not in popularity order at %d", i)
		}
	}

	price, found, err := db.FindPrice(ctx, "demo-blue-dream", "3.5g")
	if err != nil || !found || price != 35 {
		t.Errorf("FindPrice(demo-blue-dream, 3.5g) = %v, %v, %v", price, found, err)
	}

	// Second call is a no-op on a populated catalog.
	n, err = db.SeedDemoCatalog(ctx)
	if err != nil || n != 0 {
		t.Errorf("second SeedDemoCatalog() = %d, %v; want 0, nil", n, err)
	}
}

func TestSeedMemoryStore(t *testing.T) {
	t.Parallel()

	mem := recommend.NewMemoryStore()
	n := SeedMemoryStore(mem)
	if n != len(demoCatalog) {
		t.Fatalf("SeedMemoryStore() = %d, want %d", n, len(demoCatalog))
	}

	ctx := context.Background()
	products, err := mem.FindProductsByStore(ctx, DemoStoreID, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != n {
		t.Errorf("FindProductsByStore() returned %d products, want %d", len(products), n)
	}
	if products[0].ID != "demo-gelato" {
		t.Errorf("most popular = %s, want demo-gelato", products[0].ID)
	}

	price, found, err := mem.FindPrice(ctx, "demo-blue-dream", "7g")
	if err != nil || !found || price != 60 {
		t.Errorf("FindPrice(7g) = %v, %v, %v; want 60, true, nil", price, found, err)
	}
}
