// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open connects to the configured database and waits for it to answer a
// ping. PostgreSQL is retried for up to 15 seconds to ride out container
// start-up.
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres:
		return openPostgres(ctx, url)
	case TypeSQLite, "":
		return openSQLite(ctx, url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

func openPostgres(ctx context.Context, url string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	deadline := time.Now().Add(15 * time.Second)
	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	return conn, nil
}

// SQLite allows a single writer, so the pool is capped at one connection.
// This also keeps ":memory:" databases alive for the life of the pool.
func openSQLite(ctx context.Context, url string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", SQLiteDSN(url))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

// SQLiteDSN appends the pragmas the store relies on to a SQLite path.
func SQLiteDSN(url string) string {
	if url == "" {
		url = ":memory:"
	}
	if strings.Contains(url, "?") {
		return url + "&" + sqlitePragmas
	}
	return url + "?" + sqlitePragmas
}
