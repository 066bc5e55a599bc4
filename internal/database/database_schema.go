// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
database_schema.go - Catalog Schema

Tables:
  - products: one row per product per store with the attributes used for
    ranking. Terpenes are stored as a comma-joined VARCHAR and split with
    string_split at query time.
  - product_variants: per-variant prices ("1g", "3.5g", ...). A product's
    base price lives on the products row.

No secondary indexes are created: DuckDB rewrites updates of indexed
columns as delete+insert, and upserts touch purchases_last_30d constantly.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// getTableCreationQueries returns the DDL for all catalog tables
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR PRIMARY KEY,
			store_id VARCHAR NOT NULL,
			brand VARCHAR NOT NULL DEFAULT '',
			strain_type VARCHAR NOT NULL DEFAULT '',
			terpenes VARCHAR NOT NULL DEFAULT '',
			purchases_last_30d INTEGER NOT NULL DEFAULT 0,
			price DOUBLE NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS product_variants (
			product_id VARCHAR NOT NULL,
			variant_id VARCHAR NOT NULL,
			price DOUBLE NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			PRIMARY KEY (product_id, variant_id)
		)`,
	}
}

// createTables creates the catalog tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
