// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package database provides the DuckDB-backed product catalog.

DB implements recommend.CatalogStore (store popularity, product lookup and
sibling pre-selection) and pricing.PriceSource (base and variant prices).
User activity lives in the event log, not here; the two are joined with
recommend.NewCompositeStore.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	products, err := db.FindProductsByStore(ctx, "store-1", 12)

Every query records its duration and errors in the db_query_* metrics and
runs under a 30 second deadline unless the caller's context sets one.
*/
package database
