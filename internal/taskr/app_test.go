package taskr

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskr/internal/core/config"
	"github.com/colonyops/taskr/internal/core/task"
	"github.com/colonyops/taskr/internal/data/db"
	"github.com/colonyops/taskr/internal/data/stores"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Storage.Backend = backend
	return &cfg
}

func openApp(t *testing.T, cfg *config.Config, opts Options) *App {
	t.Helper()
	app, err := Open(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{config.BackendFile, config.BackendSQLite, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			app := openApp(t, cfg, Options{})
			assert.Equal(t, backend, app.Backend)
			assert.Equal(t, task.Samples(), app.Store.Tasks())

			added, _, err := app.Board.Add(ctx, "persisted?", nil)
			require.NoError(t, err)
			require.NoError(t, app.Close())

			reopened := openApp(t, cfg, Options{})
			_, found := reopened.Store.Tasks().Get(added.ID)
			assert.Equal(t, backend != config.BackendMemory, found)
		})
	}
}

func TestOpen_Ephemeral(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	app := openApp(t, cfg, Options{Ephemeral: true})

	assert.Equal(t, config.BackendMemory, app.Backend)
	assert.Empty(t, app.WatchDir())
	_, err := os.Stat(cfg.KVDir())
	assert.True(t, os.IsNotExist(err), "ephemeral runs touch nothing on disk")
}

func TestOpen_NoSeed(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Storage.SeedSamples = false

	app := openApp(t, cfg, Options{})
	assert.Empty(t, app.Store.Tasks())
}

func TestOpen_ReseedEmpty(t *testing.T) {
	ctx := context.Background()

	for _, reseed := range []bool{true, false} {
		t.Run(map[bool]string{true: "reseed", false: "keep"}[reseed], func(t *testing.T) {
			cfg := testConfig(t, config.BackendFile)
			cfg.Storage.ReseedEmpty = reseed

			app := openApp(t, cfg, Options{})
			for _, id := range task.Samples().IDs() {
				_, err := app.Store.Delete(ctx, id)
				require.NoError(t, err)
			}
			require.NoError(t, app.Close())

			reopened := openApp(t, cfg, Options{})
			if reseed {
				assert.Equal(t, task.Samples(), reopened.Store.Tasks())
			} else {
				assert.Empty(t, reopened.Store.Tasks())
			}
		})
	}
}

func TestOpen_WatchDir(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	app := openApp(t, cfg, Options{})
	assert.Equal(t, cfg.KVDir(), app.WatchDir())

	sqlCfg := testConfig(t, config.BackendSQLite)
	assert.Empty(t, openApp(t, sqlCfg, Options{}).WatchDir())
}

func TestOpen_SQLiteMigratesFromFile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendFile)

	fileApp := openApp(t, cfg, Options{})
	added, _, err := fileApp.Store.Add(ctx, "written by file backend", nil)
	require.NoError(t, err)

	cfg.Storage.Backend = config.BackendSQLite
	sqlApp := openApp(t, cfg, Options{})

	_, found := sqlApp.Store.Tasks().Get(added.ID)
	assert.True(t, found)

	// The file store is left in place.
	fileKV, err := stores.NewFileKV(cfg.KVDir())
	require.NoError(t, err)
	ok, err := fileKV.Has(ctx, TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_SQLiteRecoversFromCorruption(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	dbPath := filepath.Join(cfg.DataDir, db.FileName)
	require.NoError(t, os.WriteFile(dbPath, bytes.Repeat([]byte("garbage!"), 1024), 0o644))

	var stderr bytes.Buffer
	app := openApp(t, cfg, Options{Stderr: &stderr})

	assert.Equal(t, task.Samples(), app.Store.Tasks())
	assert.Contains(t, stderr.String(), "corrupted")

	matches, err := filepath.Glob(filepath.Join(cfg.DataDir, db.FileName+".corrupt.*"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, "redis")
	_, err := Open(context.Background(), cfg, Options{})
	assert.ErrorContains(t, err, "redis")
}

func TestApp_SchemaVersionAndMigrateDown(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)
	app := openApp(t, cfg, Options{})

	version, err := app.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	version, err = app.MigrateDown(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	_, err = app.MigrateDown(ctx, 1)
	assert.Error(t, err, "nothing left to revert")
	require.NoError(t, app.Close())

	reopened := openApp(t, cfg, Options{})
	version, err = reopened.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version, "open migrates back up")
}

func TestApp_SchemaWithoutDatabase(t *testing.T) {
	app := openApp(t, testConfig(t, config.BackendFile), Options{})

	_, err := app.SchemaVersion(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = app.MigrateDown(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoDatabase)
}
