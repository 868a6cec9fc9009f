package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/taskr/internal/core/kv"
	"github.com/colonyops/taskr/internal/data/db"
)

// SQLiteKV implements kv.KV using the kv_store table.
type SQLiteKV struct {
	db *db.DB
}

var _ kv.KV = (*SQLiteKV)(nil)

// NewSQLiteKV creates a new SQLite-backed KV store.
func NewSQLiteKV(db *db.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Get returns the value stored under key.
// Returns an error wrapping kv.ErrNotFound if the key does not exist.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.Conn().QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
		}
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

const (
	setRetries   = 4
	setRetryWait = 25 * time.Millisecond
)

// Set inserts or replaces the value under key, keeping the original
// created_at. A write that still finds the database locked once the
// connection's busy_timeout has run out is retried with backoff.
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	wait := setRetryWait
	var err error
	for i := 0; i < setRetries; i++ {
		err = s.set(ctx, key, value)
		if err == nil || !IsBusyError(err) {
			break
		}

		if i < setRetries-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("kv set %q: %w", key, ctx.Err())
			case <-time.After(wait):
			}
			wait *= 2
		}
	}
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) set(ctx context.Context, key string, value []byte) error {
	now := time.Now().UnixNano()
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO kv_store (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now, now)
	return err
}

// Delete removes a key.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *SQLiteKV) Has(ctx context.Context, key string) (bool, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store WHERE key = ?", key).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return count > 0, nil
}

// ListKeys returns all keys in sorted order.
func (s *SQLiteKV) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, "SELECT key FROM kv_store ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("kv list keys scan: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}
