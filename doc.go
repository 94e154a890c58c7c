// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Plan API server.

Quickly Plan helps a group settle on an event: participants rank options
per category (place, date and time, cuisine, location) and a Borda count
picks the winner of each.

# Starting the Server

With no configuration the server uses a local SQLite file:

	HOST_KEY_SALT=dev-salt go run .

Or PostgreSQL with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -host-salt dev-salt

Settings may also live in a .env file in the working directory.

# Configuration

Required settings:

  - HOST_KEY_SALT (-host-salt): Secret for host key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string or SQLite file (default: quickly-plan.db)
  - LOG_LEVEL (-log-level), LOG_FORMAT (-log-format): slog settings
  - NOTIFY_WEBHOOK_URL (-notify-url): Where change notifications are POSTed
  - NOTIFY_QUEUE_SIZE (-notify-queue): Pending notification limit (default: 100)
  - VOTE_RATE_PER_MIN (-vote-rate): Ballots per minute per IP (default: 30)

# Architecture

  - voting: Borda scoring, tie-breaking, status and details (pure)
  - service: Use cases over the store
  - store: SQL persistence for PostgreSQL and SQLite
  - handlers: HTTP request handlers
  - router: chi routes and middleware chain
  - middleware: Logging, CORS, rate limiting, host key checks
  - notify: Background notification dispatch
  - metrics: Prometheus counters
  - models, apperr, auth, retry, db, cliparse: Supporting packages

See package documentation for each component.
*/
package main
