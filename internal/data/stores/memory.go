package stores

import (
	"context"
	"fmt"

	"github.com/colonyops/taskr/internal/core/kv"
	pkgkv "github.com/colonyops/taskr/pkg/kv"
)

// MemoryKV implements kv.KV in process memory. Nothing survives the process;
// it backs tests and --ephemeral runs.
type MemoryKV struct {
	data *pkgkv.Store[string, []byte]
}

var _ kv.KV = (*MemoryKV)(nil)

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: pkgkv.NewWithClone[string, []byte](func(b []byte) []byte {
			return append([]byte(nil), b...)
		}),
	}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data.Get(key)
	if !ok {
		return nil, fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	return v, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	m.data.Set(key, value)
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Has reports whether key exists.
func (m *MemoryKV) Has(ctx context.Context, key string) (bool, error) {
	return m.data.Has(key), nil
}

// ListKeys returns all keys in sorted order.
func (m *MemoryKV) ListKeys(ctx context.Context) ([]string, error) {
	return m.data.Keys(), nil
}
