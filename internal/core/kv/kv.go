// Package kv defines the durable key-value medium tasks are persisted in and
// the typed slot adapter layered on top of it.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when a key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// KV is a synchronous, process-local key-value medium. Values are opaque
// serialized bytes; Set overwrites any previous value.
type KV interface {
	// Get returns the raw value stored under key. Returns an error wrapping
	// ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	// ListKeys returns all keys in sorted order.
	ListKeys(ctx context.Context) ([]string, error)
}
