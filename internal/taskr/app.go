package taskr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskr/internal/core/config"
	"github.com/colonyops/taskr/internal/core/eventbus"
	"github.com/colonyops/taskr/internal/core/kv"
	"github.com/colonyops/taskr/internal/core/task"
	"github.com/colonyops/taskr/internal/data/db"
	"github.com/colonyops/taskr/internal/data/stores"
)

// App is the central entry point for all taskr operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config *config.Config
	Bus    *eventbus.EventBus
	KV     kv.KV
	Store  *Store
	Board  *Board

	// Backend is the storage backend actually in use.
	Backend string

	db  *db.DB
	log zerolog.Logger
}

// Options tunes how an App is opened.
type Options struct {
	// Ephemeral forces the memory backend regardless of config.
	Ephemeral bool
	Logger    zerolog.Logger
	Clock     func() time.Time
	// Bus receives store and filter events. A new bus is created when nil.
	Bus *eventbus.EventBus
	// Stderr receives notices about storage recovery. Defaults to io.Discard.
	Stderr io.Writer
}

// Open builds the storage backend named by cfg and loads the task store.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Bus == nil {
		opts.Bus = eventbus.New()
	}

	backend := cfg.Storage.Backend
	if opts.Ephemeral {
		backend = config.BackendMemory
	}

	app := &App{
		Config:  cfg,
		Bus:     opts.Bus,
		Backend: backend,
		log:     opts.Logger,
	}

	store, err := app.openKV(ctx, backend, opts.Stderr)
	if err != nil {
		return nil, err
	}
	app.KV = store

	seed := task.List{}
	if cfg.Storage.SeedSamples {
		seed = task.Samples()
	}

	slot := kv.NewSlot[task.List](store, TasksKey,
		kv.WithKeepEmpty(!cfg.Storage.ReseedEmpty),
		kv.WithLogger(opts.Logger.With().Str("cmp", "slot").Logger()),
	)

	app.Store = NewStore(ctx, slot,
		WithSeed(seed),
		WithBus(opts.Bus),
		WithStoreLogger(opts.Logger.With().Str("cmp", "store").Logger()),
	)

	boardOpts := []BoardOption{WithBoardBus(opts.Bus)}
	if opts.Clock != nil {
		boardOpts = append(boardOpts, WithClock(opts.Clock))
	}
	app.Board = NewBoard(app.Store, boardOpts...)

	return app, nil
}

func (a *App) openKV(ctx context.Context, backend string, stderr io.Writer) (kv.KV, error) {
	switch backend {
	case config.BackendMemory:
		return stores.NewMemoryKV(), nil

	case config.BackendFile:
		store, err := stores.NewFileKV(a.Config.KVDir())
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return store, nil

	case config.BackendSQLite:
		database, err := a.openDB(stderr)
		if err != nil {
			return nil, err
		}
		a.db = database

		store := stores.NewSQLiteKV(database)
		if err := a.migrateFromFile(ctx, store); err != nil {
			_ = database.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func (a *App) openDB(stderr io.Writer) (*db.DB, error) {
	if err := os.MkdirAll(a.Config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := db.OpenOptions{
		MaxOpenConns: a.Config.Database.MaxOpenConns,
		MaxIdleConns: a.Config.Database.MaxIdleConns,
		BusyTimeout:  a.Config.Database.BusyTimeout,
		Logger:       a.log.With().Str("cmp", "db").Logger(),
	}

	database, err := db.Open(a.Config.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a.log.Warn().Err(err).Msg("database corrupted, moving it aside")
	if rerr := stores.RecoverFromCorruption(a.Config.DataDir); rerr != nil {
		return nil, fmt.Errorf("recover database: %w", errors.Join(err, rerr))
	}
	_, _ = fmt.Fprintf(stderr, "taskr: database was corrupted and has been reset; the old file was kept next to %s\n", db.FileName)

	database, err = db.Open(a.Config.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}

// migrateFromFile copies tasks written by the file backend into a fresh
// sqlite store, so switching backends keeps existing tasks.
func (a *App) migrateFromFile(ctx context.Context, dst kv.KV) error {
	if _, err := os.Stat(a.Config.KVDir()); err != nil {
		return nil
	}

	src, err := stores.NewFileKV(a.Config.KVDir())
	if err != nil {
		return fmt.Errorf("open file store for migration: %w", err)
	}

	copied, err := stores.MigrateKeys(ctx, dst, src, TasksKey)
	if err != nil {
		return fmt.Errorf("migrate from file store: %w", err)
	}
	if len(copied) > 0 {
		a.log.Info().Strs("keys", copied).Msg("migrated keys from file store")
	}
	return nil
}

// WatchDir returns the directory to watch for changes made by other
// processes, or "" when the backend has no watchable files.
func (a *App) WatchDir() string {
	if a.Backend != config.BackendFile {
		return ""
	}
	return a.Config.KVDir()
}

// ErrNoDatabase is returned by schema operations when the backend in use is
// not sqlite.
var ErrNoDatabase = errors.New("storage backend has no database")

// SchemaVersion returns the highest applied migration of the sqlite backend.
func (a *App) SchemaVersion(ctx context.Context) (int, error) {
	if a.db == nil {
		return 0, fmt.Errorf("schema version (backend %s): %w", a.Backend, ErrNoDatabase)
	}
	return a.db.SchemaVersion(ctx)
}

// MigrateDown reverts the last n migrations of the sqlite backend and
// returns the resulting schema version. The next Open migrates back up.
func (a *App) MigrateDown(ctx context.Context, n int) (int, error) {
	if a.db == nil {
		return 0, fmt.Errorf("migrate down (backend %s): %w", a.Backend, ErrNoDatabase)
	}
	if err := a.db.MigrateDown(ctx, n); err != nil {
		return 0, err
	}
	a.log.Warn().Int("steps", n).Msg("reverted schema migrations")
	return a.db.SchemaVersion(ctx)
}

// Close releases storage resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
