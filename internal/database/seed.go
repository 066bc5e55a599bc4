// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/budtender/internal/logging"
	"github.com/tomtom215/budtender/internal/recommend"
)

// DemoStoreID is the store that SeedDemoCatalog populates.
const DemoStoreID = "demo-store"

type demoVariant struct {
	id    string
	price float64
}

// demoCatalog is a small, hand-picked catalog covering every strain type
// and the common terpenes, for local development and screenshots.
var demoCatalog = []struct {
	product  recommend.Product
	variants []demoVariant
}{
	{recommend.Product{ID: "demo-blue-dream", Brand: "Coastal Farms", StrainType: recommend.StrainSativa,
		Terpenes: []string{"myrcene", "pinene", "caryophyllene"}, PurchasesLast30d: 142, Price: 35},
		[]demoVariant{{"1g", 12}, {"3.5g", 35}, {"7g", 60}}},
	{recommend.Product{ID: "demo-granddaddy-purple", Brand: "Valley Growers", StrainType: recommend.StrainIndica,
		Terpenes: []string{"myrcene", "linalool"}, PurchasesLast30d: 118, Price: 38},
		[]demoVariant{{"3.5g", 38}, {"7g", 70}}},
	{recommend.Product{ID: "demo-sour-diesel", Brand: "Coastal Farms", StrainType: recommend.StrainSativa,
		Terpenes: []string{"limonene", "caryophyllene"}, PurchasesLast30d: 97, Price: 40},
		[]demoVariant{{"3.5g", 40}}},
	{recommend.Product{ID: "demo-gelato", Brand: "Sunset Cultivation", StrainType: recommend.StrainHybrid,
		Terpenes: []string{"limonene", "caryophyllene", "linalool"}, PurchasesLast30d: 160, Price: 45},
		[]demoVariant{{"1g", 15}, {"3.5g", 45}}},
	{recommend.Product{ID: "demo-northern-lights", Brand: "Valley Growers", StrainType: recommend.StrainIndica,
		Terpenes: []string{"myrcene", "pinene"}, PurchasesLast30d: 74, Price: 32},
		[]demoVariant{{"3.5g", 32}}},
	{recommend.Product{ID: "demo-harlequin", Brand: "Clear Leaf", StrainType: recommend.StrainCBD,
		Terpenes: []string{"myrcene", "pinene"}, PurchasesLast30d: 41, Price: 30},
		[]demoVariant{{"1g", 10}, {"3.5g", 30}}},
	{recommend.Product{ID: "demo-wedding-cake", Brand: "Sunset Cultivation", StrainType: recommend.StrainHybrid,
		Terpenes: []string{"limonene", "caryophyllene"}, PurchasesLast30d: 133, Price: 42},
		[]demoVariant{{"3.5g", 42}, {"7g", 80}}},
	{recommend.Product{ID: "demo-jack-herer", Brand: "Clear Leaf", StrainType: recommend.StrainSativa,
		Terpenes: []string{"terpinolene", "pinene"}, PurchasesLast30d: 58, Price: 36},
		[]demoVariant{{"3.5g", 36}}},
}

// SeedDemoCatalog loads the demo catalog into DemoStoreID when the catalog is empty.
// It returns the number of products written.
func (db *DB) SeedDemoCatalog(ctx context.Context) (int, error) {
	count, err := db.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Info().Int("products", count).Msg("Catalog not empty, skipping demo seed")
		return 0, nil
	}

	for i := range demoCatalog {
		p := demoCatalog[i].product
		p.StoreID = DemoStoreID
		if err := db.UpsertProduct(ctx, p); err != nil {
			return i, fmt.Errorf("seed product: %w", err)
		}
		for _, v := range demoCatalog[i].variants {
			if err := db.UpsertVariantPrice(ctx, p.ID, v.id, v.price); err != nil {
				return i, fmt.Errorf("seed variant: %w", err)
			}
		}
	}

	logging.Info().Int("products", len(demoCatalog)).Str("store_id", DemoStoreID).Msg("Seeded demo catalog")
	return len(demoCatalog), nil
}

// SeedMemoryStore loads the demo catalog into an in-memory store.
func SeedMemoryStore(m *recommend.MemoryStore) int {
	for i := range demoCatalog {
		p := demoCatalog[i].product
		p.StoreID = DemoStoreID
		m.AddProduct(p)
		for _, v := range demoCatalog[i].variants {
			m.SetVariantPrice(p.ID, v.id, v.price)
		}
	}
	return len(demoCatalog)
}
