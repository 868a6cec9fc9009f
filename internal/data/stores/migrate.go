package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/taskr/internal/core/kv"
)

// MigrateKeys copies each of keys from src into dst when dst does not have
// it yet. Keys already present in dst are left untouched, so running it on
// every start is safe. It returns the keys that were copied.
//
// This is how switching storage.backend from file to sqlite carries existing
// tasks over.
func MigrateKeys(ctx context.Context, dst, src kv.KV, keys ...string) ([]string, error) {
	var copied []string

	for _, key := range keys {
		has, err := dst.Has(ctx, key)
		if err != nil {
			return copied, fmt.Errorf("check destination %q: %w", key, err)
		}
		if has {
			continue
		}

		value, err := src.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return copied, fmt.Errorf("read source %q: %w", key, err)
		}

		if err := dst.Set(ctx, key, value); err != nil {
			return copied, fmt.Errorf("write destination %q: %w", key, err)
		}
		copied = append(copied, key)
	}

	return copied, nil
}
