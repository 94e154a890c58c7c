// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connecting

Open picks the driver from the configured type:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

  - postgres: github.com/lib/pq, pinged with retry for up to 15 seconds
  - sqlite: modernc.org/sqlite, foreign keys on, one pooled connection

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - event: planning session, status and quick-poll flag
  - event_category: voting categories per event
  - participant: roster keyed by voter key ("user:42")
  - event_option: option catalog with optional venue JSON
  - preference: one ranked ballot
  - preference_rank: entries of a ballot
  - event_winner: winners recorded at finalization
  - device: registered devices

# Relationships

	event 1──* event_category
	event 1──* participant
	event 1──* event_option
	event 1──* preference
	preference 1──* preference_rank
	event 1──* event_winner

# Ballot Uniqueness

A partial unique index allows one standard-mode ballot per
(event_id, category, voter_key). Quick-poll ballots are exempt.
*/
package db
