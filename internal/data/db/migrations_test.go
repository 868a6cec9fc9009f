package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func tableExists(t *testing.T, database *DB, name string) bool {
	t.Helper()
	var count int
	err := database.Conn().QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestMigrateUp_FreshDB(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	version, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.True(t, tableExists(t, database, "kv_store"))
}

func TestMigrateUp_Idempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	version, err := second.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestMigrateDown(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.MigrateDown(ctx, 1))
	assert.False(t, tableExists(t, database, "kv_store"))

	version, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	assert.Error(t, database.MigrateDown(ctx, 1))
	assert.Error(t, database.MigrateDown(ctx, 0))
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		version   int
		migName   string
		direction string
		wantErr   bool
	}{
		{name: "up", filename: "0001_kv_store.up.sql", version: 1, migName: "kv_store", direction: "up"},
		{name: "down", filename: "0012_add_index.down.sql", version: 12, migName: "add_index", direction: "down"},
		{name: "no direction", filename: "0001_kv_store.sql", wantErr: true},
		{name: "no name", filename: "0001.up.sql", wantErr: true},
		{name: "bad version", filename: "abcd_x.up.sql", wantErr: true},
		{name: "zero version", filename: "0000_x.up.sql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, name, direction, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.migName, name)
			assert.Equal(t, tt.direction, direction)
		})
	}
}

func TestWithTx_Rollback(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO kv_store (key, value, created_at, updated_at) VALUES ('k', 'v', 0, 0)")
		require.NoError(t, err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&count))
	assert.Equal(t, 0, count)
}
