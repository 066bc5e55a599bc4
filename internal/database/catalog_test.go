// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/budtender/internal/recommend"
)

func testProduct(id, store string, purchases int) recommend.Product {
	return recommend.Product{
		ID:               id,
		StoreID:          store,
		Brand:            "House",
		StrainType:       recommend.StrainHybrid,
		Terpenes:         []string{"limonene"},
		PurchasesLast30d: purchases,
		Price:            20,
	}
}

func mustUpsert(t *testing.T, db *DB, products ...recommend.Product) {
	t.Helper()
	for _, p := range products {
		if err := db.UpsertProduct(context.Background(), p); err != nil {
			t.Fatalf("UpsertProduct(%s) error = %v", p.ID, err)
		}
	}
}

func ids(products []recommend.Product) []string {
	out := make([]string, len(products))
	for i := range products {
		out[i] = products[i].ID
	}
	return out
}

func TestUpsertProduct_RoundTripAndReplace(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	p := recommend.Product{
		ID:               "p1",
		StoreID:          "s1",
		Brand:            "Coastal Farms",
		StrainType:       recommend.StrainSativa,
		Terpenes:         []string{"myrcene", " pinene ", ""},
		PurchasesLast30d: 12,
		Price:            35.5,
	}
	mustUpsert(t, db, p)

	got, err := db.FindProductByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindProductByID() error = %v", err)
	}
	want := p
	want.Terpenes = []string{"myrcene", "pinene"}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("FindProductByID() = %+v, want %+v", *got, want)
	}

	p.PurchasesLast30d = 40
	p.Terpenes = nil
	mustUpsert(t, db, p)

	got, err = db.FindProductByID(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.PurchasesLast30d != 40 || len(got.Terpenes) != 0 {
		t.Errorf("after replace = %+v, want purchases 40 and no terpenes", *got)
	}
	if n, _ := db.CountProducts(ctx); n != 1 {
		t.Errorf("CountProducts() = %d, want 1", n)
	}
}

func TestUpsertProduct_Invalid(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	tests := []struct {
		name string
		p    recommend.Product
	}{
		{"missing id", recommend.Product{StoreID: "s1"}},
		{"missing store", recommend.Product{ID: "p1"}},
		{"negative purchases", recommend.Product{ID: "p1", StoreID: "s1", PurchasesLast30d: -1}},
		{"comma terpene", recommend.Product{ID: "p1", StoreID: "s1", Terpenes: []string{"a,b"}}},
	}
	for _, tt := range tests {
		err := db.UpsertProduct(context.Background(), tt.p)
		if !errors.Is(err, ErrInvalidProduct) {
			t.Errorf("%s: UpsertProduct() error = %v, want ErrInvalidProduct", tt.name, err)
		}
	}
}

func TestFindProductByID_Missing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	p, err := db.FindProductByID(context.Background(), "nope")
	if err != nil || p != nil {
		t.Errorf("FindProductByID() = %v, %v; want nil, nil", p, err)
	}
}

func TestFindProductsByStore_PopularityOrder(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	mustUpsert(t, db,
		testProduct("a", "s1", 10),
		testProduct("b", "s1", 30),
		testProduct("c", "s1", 50),
		testProduct("d", "s1", 30),
		testProduct("other", "s2", 999),
	)

	got, err := db.FindProductsByStore(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("FindProductsByStore() error = %v", err)
	}
	if want := []string{"c", "b", "d", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("FindProductsByStore() = %v, want %v", ids(got), want)
	}

	got, err = db.FindProductsByStore(context.Background(), "s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c", "b"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("FindProductsByStore(limit 2) = %v, want %v", ids(got), want)
	}

	got, err = db.FindProductsByStore(context.Background(), "empty", 5)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("FindProductsByStore(empty store) = %v, %v; want empty non-nil", got, err)
	}
}

func TestFindSiblingProducts(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	mustUpsert(t, db,
		recommend.Product{ID: "base", StoreID: "s1", Brand: "House", StrainType: recommend.StrainIndica,
			Terpenes: []string{"myrcene", "linalool"}, PurchasesLast30d: 100},
		recommend.Product{ID: "same-brand", StoreID: "s1", Brand: "House", StrainType: recommend.StrainSativa,
			Terpenes: []string{"pinene"}, PurchasesLast30d: 5},
		recommend.Product{ID: "same-strain", StoreID: "s1", Brand: "Other", StrainType: recommend.StrainIndica,
			PurchasesLast30d: 20},
		recommend.Product{ID: "shared-terp", StoreID: "s1", Brand: "Other", StrainType: recommend.StrainSativa,
			Terpenes: []string{"pinene", "linalool"}, PurchasesLast30d: 10},
		recommend.Product{ID: "no-match", StoreID: "s1", Brand: "Other", StrainType: recommend.StrainSativa,
			Terpenes: []string{"pinene"}, PurchasesLast30d: 99},
		recommend.Product{ID: "other-store", StoreID: "s2", Brand: "House", StrainType: recommend.StrainIndica,
			PurchasesLast30d: 50},
	)

	match := recommend.SiblingMatch{
		Brand:      "House",
		StrainType: recommend.StrainIndica,
		Terpenes:   []string{"myrcene", "linalool"},
	}
	got, err := db.FindSiblingProducts(context.Background(), "s1", "base", match, 10)
	if err != nil {
		t.Fatalf("FindSiblingProducts() error = %v", err)
	}
	if want := []string{"same-strain", "shared-terp", "same-brand"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("FindSiblingProducts() = %v, want %v", ids(got), want)
	}

	got, err = db.FindSiblingProducts(context.Background(), "s1", "base", match, 1)
	if err != nil || len(got) != 1 {
		t.Errorf("FindSiblingProducts(limit 1) = %v, %v", ids(got), err)
	}

	// Terpene-only match
	got, err = db.FindSiblingProducts(context.Background(), "s1", "base",
		recommend.SiblingMatch{Terpenes: []string{"linalool"}}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"shared-terp"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("terpene-only match = %v, want %v", ids(got), want)
	}

	// Nothing to match on
	got, err = db.FindSiblingProducts(context.Background(), "s1", "base", recommend.SiblingMatch{}, 10)
	if err != nil || len(got) != 0 {
		t.Errorf("empty match = %v, %v; want none", ids(got), err)
	}
}

func TestFindPrice(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	p := testProduct("p1", "s1", 1)
	p.Price = 25
	mustUpsert(t, db, p)
	if err := db.UpsertVariantPrice(ctx, "p1", "3.5g", 35); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertVariantPrice(ctx, "p1", "3.5g", 33); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		productID string
		variantID string
		wantPrice float64
		wantFound bool
	}{
		{"base price", "p1", "", 25, true},
		{"variant price replaced", "p1", "3.5g", 33, true},
		{"unknown variant", "p1", "28g", 0, false},
		{"unknown product", "p9", "", 0, false},
	}
	for _, tt := range tests {
		price, found, err := db.FindPrice(ctx, tt.productID, tt.variantID)
		if err != nil {
			t.Fatalf("%s: FindPrice() error = %v", tt.name, err)
		}
		if price != tt.wantPrice || found != tt.wantFound {
			t.Errorf("%s: FindPrice() = %v, %v; want %v, %v", tt.name, price, found, tt.wantPrice, tt.wantFound)
		}
	}

	if err := db.UpsertVariantPrice(ctx, "p1", "", 1); !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("UpsertVariantPrice(empty variant) error = %v, want ErrInvalidProduct", err)
	}
}

func TestCatalog_SatisfiesEngine(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	mustUpsert(t, db, testProduct("a", "s1", 1), testProduct("b", "s1", 2))

	store, err := recommend.NewCompositeStore(db, recommend.NewMemoryStore())
	if err != nil {
		t.Fatal(err)
	}
	engine, err := recommend.NewEngine(store, nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	got, err := engine.ForYou(context.Background(), recommend.ForYouRequest{StoreID: "s1"})
	if err != nil {
		t.Fatalf("ForYou() error = %v", err)
	}
	if want := []string{"b", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ForYou() = %v, want %v", ids(got), want)
	}
}

func TestUpsertProduct_NormalizesStrainType(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	mixed := testProduct("mixed", "s1", 5)
	mixed.StrainType = " Indica "
	base := testProduct("base", "s1", 1)
	base.StrainType = recommend.StrainIndica
	base.Brand = "Other"
	base.Terpenes = nil
	mustUpsert(t, db, mixed, base)

	got, err := db.FindProductByID(context.Background(), "mixed")
	if err != nil || got == nil {
		t.Fatalf("FindProductByID() = %v, %v", got, err)
	}
	if got.StrainType != recommend.StrainIndica {
		t.Errorf("StrainType = %q, want %q", got.StrainType, recommend.StrainIndica)
	}

	siblings, err := db.FindSiblingProducts(context.Background(), "s1", "base",
		recommend.SiblingMatch{StrainType: recommend.StrainIndica}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"mixed"}; !reflect.DeepEqual(ids(siblings), want) {
		t.Errorf("FindSiblingProducts() = %v, want %v", ids(siblings), want)
	}
}
