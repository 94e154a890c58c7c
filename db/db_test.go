// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?"+sqlitePragmas, SQLiteDSN(""))
	assert.Equal(t, "plan.db?"+sqlitePragmas, SQLiteDSN("plan.db"))
	assert.Equal(t, "file:plan.db?mode=rwc&"+sqlitePragmas, SQLiteDSN("file:plan.db?mode=rwc"))
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	assert.Error(t, err)
}

func TestCreateSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, TypeSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, CreateSchema(ctx, conn))
	require.NoError(t, CreateSchema(ctx, conn))

	tables := []string{"event", "event_category", "participant", "event_option", "preference", "preference_rank", "event_winner", "device"}
	for _, name := range tables {
		var found string
		err := conn.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, name).Scan(&found)
		assert.NoError(t, err, "table %s", name)
	}
}
