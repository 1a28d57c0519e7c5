// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p                PORT              Server port (default: 3318)
	-d                DATABASE_URL      Database URL (default: file:mealpick.db for sqlite)
	-t                DATABASE_TYPE     sqlite, postgres or pgx (default: sqlite)
	-k                KITCHEN_API_URL   Kitchen API origin (default: http://localhost:5000)
	-public-url       PUBLIC_BASE_URL   Prefix for lobby share links
	-redis            REDIS_URL         Redis recipe cache; in-memory when empty
	-cache-ttl        RECIPE_CACHE_TTL  Recipe detail cache lifetime (default: 30m)
	-spin             SPIN_DURATION     Picker spin duration (default: 5s)
	-wheel-idle-ttl   WHEEL_IDLE_TTL    Unused lobby wheels are dropped after this (default: 1h)
	-kitchen-timeout  KITCHEN_TIMEOUT   Kitchen API client timeout (default: 10s)
	-request-timeout  REQUEST_TIMEOUT   Per-request deadline (default: 30s)
	-log-level        LOG_LEVEL         debug, info, warn or error
	-log-format       LOG_FORMAT        text or json

CLI flags take precedence over environment variables. main loads a .env
file before calling ParseFlags, so values there behave like real env vars.

# Validation

ParseFlags returns an error when:

  - PORT is not a number
  - DATABASE_TYPE is not one of the supported drivers
  - a non-sqlite database type has no DATABASE_URL
  - a duration is malformed or not positive
*/
package cliparse
