package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lingo.db")

	conn, err := db.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, conn.Ready(ctx))

	var tables int
	err = conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('profiles', 'lessons', 'progress')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 3, tables)
	require.NoError(t, conn.Close())

	// Reopening must not re-run anything.
	conn, err = db.Open(ctx, path)
	require.NoError(t, err)
	defer conn.Close()

	var applied int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:x.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", db.DSN("file:x.db"))
}
