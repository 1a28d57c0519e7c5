// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the mealpick API server.

mealpick plans group meals: a host creates a lobby, guests submit allergies
and dietary restrictions through a shared link, and the server recommends
main courses nobody has to refuse. A wheel picks the winner.

# Starting the Server

Every setting has a default, so a bare start uses a local sqlite file:

	go run .

With flags:

	go run . -p 3318 -t postgres -d "postgres://..." -k http://kitchen:5000

A .env file in the working directory is loaded first.

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:mealpick.db)
  - KITCHEN_API_URL (-k): Kitchen API origin (default: http://localhost:5000)
  - PUBLIC_BASE_URL (--public-url): Prefix for share links
  - REDIS_URL (--redis): Shared recipe cache; memory when unset
  - RECIPE_CACHE_TTL, SPIN_DURATION, WHEEL_IDLE_TTL, KITCHEN_TIMEOUT, REQUEST_TIMEOUT
  - LOG_LEVEL, LOG_FORMAT (text or json)

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, timeouts, JSON helpers
  - kitchen: Client for the kitchen API
  - recipes: Restriction filtering and the two-stage recommendation fetch
  - picker: Per-lobby wheel state machine
  - roles, preferences: Role cards and form normalization
  - cache: Memory and Redis recipe caches
  - db, token, models, cliparse, version: Supporting packages

See package documentation for each component.
*/
package main
