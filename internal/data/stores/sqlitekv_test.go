package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskr/internal/data/db"
)

func openSharedDB(t *testing.T, dir string, busyTimeout int) *db.DB {
	t.Helper()
	opts := db.DefaultOpenOptions()
	opts.BusyTimeout = busyTimeout
	database, err := db.Open(dir, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestSQLiteKV_SetRetriesWhileLocked(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	holder := openSharedDB(t, dir, 5000)
	writer := NewSQLiteKV(openSharedDB(t, dir, 0))

	conn, err := holder.Conn().Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = conn.ExecContext(ctx, "BEGIN IMMEDIATE")
	require.NoError(t, err)

	released := make(chan error, 1)
	go func() {
		time.Sleep(40 * time.Millisecond)
		_, err := conn.ExecContext(ctx, "ROLLBACK")
		released <- err
	}()

	require.NoError(t, writer.Set(ctx, "tasks", []byte(`[]`)))
	require.NoError(t, <-released)

	got, err := writer.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestSQLiteKV_SetGivesUpWhenContextDone(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	holder := openSharedDB(t, dir, 5000)
	writer := NewSQLiteKV(openSharedDB(t, dir, 0))

	conn, err := holder.Conn().Conn(ctx)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = conn.ExecContext(ctx, "BEGIN IMMEDIATE")
	require.NoError(t, err)
	defer func() { _, _ = conn.ExecContext(ctx, "ROLLBACK") }()

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	err = writer.Set(cancelled, "tasks", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `kv set "tasks"`)
}

func TestIsBusyError(t *testing.T) {
	assert.False(t, IsBusyError(nil))
	assert.False(t, IsBusyError(errors.New("database is locked")))
}
