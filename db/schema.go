// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL is shared by PostgreSQL and SQLite, so it sticks to types and
// clauses both accept.
const schema = `
-- Events
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    host_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'voting' CHECK (status IN ('draft', 'voting', 'finalized', 'past')),
    quick_poll_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_status ON event(status);

-- Voting categories, in display order
CREATE TABLE IF NOT EXISTS event_category (
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    sort_order INTEGER NOT NULL,
    PRIMARY KEY (event_id, category)
);

-- Participant roster
CREATE TABLE IF NOT EXISTS participant (
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    voter_key TEXT NOT NULL,
    voter_kind TEXT NOT NULL,
    voter_value TEXT NOT NULL,
    display_name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'participant' CHECK (role IN ('host', 'participant')),
    joined_at TIMESTAMP NOT NULL,
    last_voted_at TIMESTAMP,
    PRIMARY KEY (event_id, voter_key)
);

-- Option catalog
CREATE TABLE IF NOT EXISTS event_option (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    label TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    venue TEXT,
    sort_order INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_option_event ON event_option(event_id, category);

-- Ranked ballots
CREATE TABLE IF NOT EXISTS preference (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    voter_key TEXT NOT NULL,
    voter_kind TEXT NOT NULL,
    voter_value TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    guest_token TEXT NOT NULL DEFAULT '',
    device_id TEXT NOT NULL DEFAULT '',
    voter_name TEXT NOT NULL DEFAULT '',
    is_quick_poll BOOLEAN NOT NULL DEFAULT FALSE,
    ip_hash TEXT NOT NULL DEFAULT '',
    voted_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_preference_event ON preference(event_id, category);
CREATE INDEX IF NOT EXISTS idx_preference_device ON preference(device_id);

-- At most one standard-mode ballot per voter and category
CREATE UNIQUE INDEX IF NOT EXISTS idx_preference_active_voter
    ON preference(event_id, category, voter_key)
    WHERE is_quick_poll = FALSE;

-- Ballot entries; option_id is not a foreign key so historical ballots
-- survive catalog changes until scrubbed
CREATE TABLE IF NOT EXISTS preference_rank (
    preference_id TEXT NOT NULL REFERENCES preference(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL,
    option_name TEXT NOT NULL DEFAULT '',
    rank_value INTEGER NOT NULL CHECK (rank_value >= 1),
    sort_order INTEGER NOT NULL,
    PRIMARY KEY (preference_id, option_id)
);

CREATE INDEX IF NOT EXISTS idx_preference_rank_option ON preference_rank(option_id);

-- Finalized winners
CREATE TABLE IF NOT EXISTS event_winner (
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    option_id TEXT NOT NULL,
    option_name TEXT NOT NULL,
    score INTEGER NOT NULL,
    is_tied BOOLEAN NOT NULL DEFAULT FALSE,
    explanation TEXT NOT NULL DEFAULT '',
    decided_at TIMESTAMP NOT NULL,
    PRIMARY KEY (event_id, category)
);

-- Devices
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    device_uuid TEXT NOT NULL UNIQUE,
    platform TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    last_seen_at TIMESTAMP NOT NULL
);
`
