// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/budtender/internal/metrics"
	"github.com/tomtom215/budtender/internal/recommend"
)

const productColumns = `id, store_id, brand, strain_type, terpenes, purchases_last_30d, price`

// UpsertProduct inserts a product or replaces its attributes.
//
//nolint:gocritic // hugeParam: product passed by value like the rest of the catalog API
func (db *DB) UpsertProduct(ctx context.Context, p recommend.Product) error {
	if p.ID == "" || p.StoreID == "" {
		return fmt.Errorf("%w: id and store_id are required", ErrInvalidProduct)
	}
	if p.PurchasesLast30d < 0 || p.Price < 0 {
		return fmt.Errorf("%w: purchases and price must be non-negative", ErrInvalidProduct)
	}
	terpenes, err := joinTerpenes(p.Terpenes)
	if err != nil {
		return err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `INSERT INTO products (` + productColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			store_id = EXCLUDED.store_id,
			brand = EXCLUDED.brand,
			strain_type = EXCLUDED.strain_type,
			terpenes = EXCLUDED.terpenes,
			purchases_last_30d = EXCLUDED.purchases_last_30d,
			price = EXCLUDED.price,
			updated_at = EXCLUDED.updated_at`

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query,
		p.ID, p.StoreID, p.Brand, string(recommend.NormalizeStrainType(string(p.StrainType))), terpenes,
		p.PurchasesLast30d, p.Price, time.Now().UTC())
	metrics.RecordDBQuery("upsert", "products", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

// UpsertVariantPrice sets the price of one variant of a product.
func (db *DB) UpsertVariantPrice(ctx context.Context, productID, variantID string, price float64) error {
	if productID == "" || variantID == "" {
		return fmt.Errorf("%w: product and variant id are required", ErrInvalidProduct)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidProduct)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `INSERT INTO product_variants (product_id, variant_id, price, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (product_id, variant_id) DO UPDATE SET
			price = EXCLUDED.price,
			updated_at = EXCLUDED.updated_at`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, productID, variantID, price, time.Now().UTC())
	metrics.RecordDBQuery("upsert", "product_variants", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert variant %s/%s: %w", productID, variantID, err)
	}
	return nil
}

// CountProducts returns the number of products in the catalog.
func (db *DB) CountProducts(ctx context.Context) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	metrics.RecordDBQuery("count", "products", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// FindProductsByStore returns up to limit products in a store, most purchased first.
// Ties are broken by product id so the order is stable across calls.
func (db *DB) FindProductsByStore(ctx context.Context, storeID string, limit int) ([]recommend.Product, error) {
	if limit <= 0 {
		return []recommend.Product{}, nil
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE store_id = ?
		ORDER BY purchases_last_30d DESC, id
		LIMIT ?`

	return db.queryProducts(ctx, "find_by_store", query, storeID, limit)
}

// FindProductByID returns nil, nil when the product does not exist.
func (db *DB) FindProductByID(ctx context.Context, productID string) (*recommend.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	start := time.Now()
	p, err := scanProduct(db.conn.QueryRowContext(ctx, query, productID))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("find_by_id", "products", time.Since(start), nil)
		return nil, nil
	}
	metrics.RecordDBQuery("find_by_id", "products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	return &p, nil
}

// FindSiblingProducts returns up to limit products in storeID, other than
// excludeID, sharing the brand, the strain type or at least one terpene.
//
//nolint:gocritic // hugeParam: match passed by value for immutability
func (db *DB) FindSiblingProducts(ctx context.Context, storeID, excludeID string, match recommend.SiblingMatch, limit int) ([]recommend.Product, error) {
	if limit <= 0 {
		return []recommend.Product{}, nil
	}

	var (
		clauses []string
		args    = []interface{}{storeID, excludeID}
	)
	if match.Brand != "" {
		clauses = append(clauses, "brand = ?")
		args = append(args, match.Brand)
	}
	if match.StrainType != "" {
		clauses = append(clauses, "strain_type = ?")
		args = append(args, string(match.StrainType))
	}

	terpenes := nonEmpty(match.Terpenes)
	if len(terpenes) > 0 {
		placeholders := make([]string, len(terpenes))
		for i, t := range terpenes {
			placeholders[i] = "?::VARCHAR"
			args = append(args, t)
		}
		clauses = append(clauses,
			"list_has_any(string_split(terpenes, ','), ["+strings.Join(placeholders, ", ")+"])")
	}

	// Nothing to match on: no product can be a sibling.
	if len(clauses) == 0 {
		return []recommend.Product{}, nil
	}
	args = append(args, limit)

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE store_id = ? AND id <> ? AND (` + strings.Join(clauses, " OR ") + `)
		ORDER BY purchases_last_30d DESC, id
		LIMIT ?`

	return db.queryProducts(ctx, "find_siblings", query, args...)
}

// FindPrice returns the variant price when variantID is set and the
// product's base price otherwise. found is false when no row exists.
func (db *DB) FindPrice(ctx context.Context, productID, variantID string) (price float64, found bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var (
		query string
		args  []interface{}
		table string
	)
	if variantID == "" {
		query, args, table = `SELECT price FROM products WHERE id = ?`, []interface{}{productID}, "products"
	} else {
		query = `SELECT price FROM product_variants WHERE product_id = ? AND variant_id = ?`
		args, table = []interface{}{productID, variantID}, "product_variants"
	}

	start := time.Now()
	err = db.conn.QueryRowContext(ctx, query, args...).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("find_price", table, time.Since(start), nil)
		return 0, false, nil
	}
	metrics.RecordDBQuery("find_price", table, time.Since(start), err)
	if err != nil {
		return 0, false, fmt.Errorf("find price %s/%s: %w", productID, variantID, err)
	}
	return price, true, nil
}

// queryProducts runs a product SELECT and scans every row.
func (db *DB) queryProducts(ctx context.Context, operation, query string, args ...interface{}) ([]recommend.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordDBQuery(operation, "products", time.Since(start), err)
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeWithLog(rows, "rows")

	products := make([]recommend.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			metrics.RecordDBQuery(operation, "products", time.Since(start), err)
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	err = rows.Err()
	metrics.RecordDBQuery(operation, "products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (recommend.Product, error) {
	var (
		p          recommend.Product
		strainType string
		terpenes   string
	)
	if err := row.Scan(&p.ID, &p.StoreID, &p.Brand, &strainType, &terpenes, &p.PurchasesLast30d, &p.Price); err != nil {
		return recommend.Product{}, err
	}
	p.StrainType = recommend.StrainType(strainType)
	p.Terpenes = splitTerpenes(terpenes)
	return p, nil
}

// joinTerpenes encodes terpene names for the terpenes column.
func joinTerpenes(terpenes []string) (string, error) {
	clean := nonEmpty(terpenes)
	for _, t := range clean {
		if strings.Contains(t, ",") {
			return "", fmt.Errorf("%w: terpene %q contains a comma", ErrInvalidProduct, t)
		}
	}
	return strings.Join(clean, ","), nil
}

func splitTerpenes(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
