// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package main is the entry point for the Budtender server.

Budtender serves personalized product recommendations ("for you" and
"related to") for cannabis retail storefronts, plus cached product prices.

# Application Architecture

Components are built in this order:

 1. Configuration: defaults, config.yaml, then environment (Koanf v2)
 2. Catalog: DuckDB (CATALOG_DRIVER=duckdb) or an in-memory store
 3. Event log: BadgerDB-backed user activity (views, favorites, purchases)
 4. Recommendation engine over catalog + event log
 5. Price cache (bounded LRU, 30s TTL) behind a circuit breaker
 6. HTTP API (chi) under a Suture v4 supervisor tree

The supervisor tree:

	RootSupervisor ("budtender")
	├── DataSupervisor ("data-layer")
	│   └── EventLogGCService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

# Configuration

Common environment variables:

	HTTP_PORT=8420
	CATALOG_DRIVER=duckdb
	DUCKDB_PATH=/data/budtender.duckdb
	SEED_DEMO_DATA=true
	EVENTLOG_PATH=/data/eventlog
	PRICE_CACHE_CAPACITY=100
	PRICE_CACHE_TTL=30s
	LOG_LEVEL=info

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT, then the event log and the
catalog are closed.

# Example Usage

	export CATALOG_DRIVER=memory SEED_DEMO_DATA=true EVENTLOG_IN_MEMORY=true
	./budtender
	curl 'localhost:8420/api/v1/recommendations/for-you?storeId=demo-store'
*/
package main
