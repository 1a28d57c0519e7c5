// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open accepts the configured database type and registers all three drivers:

  - sqlite: modernc.org/sqlite (pure Go, the default)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Queries use $N placeholders, which every driver accepts.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - lobby: Events created through POST /lobbies
  - spin: Settled picker spins, one row per spin

Participants, recipes and fridge items belong to the kitchen API and are
never stored here. spin.lobby_id has no foreign key because a lobby may only
exist on the kitchen side.
*/
package db
