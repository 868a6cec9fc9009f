package stores

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"github.com/colonyops/taskr/internal/core/kv"
)

const (
	fileExt      = ".json"
	lockFileName = ".lock"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// FileKV implements kv.KV with one JSON file per key in a directory. Writes
// go to a temp file that is renamed into place, and every operation holds an
// advisory lock on the directory so concurrent taskr processes never observe
// a half-written value.
type FileKV struct {
	dir  string
	lock *flock.Flock
}

var _ kv.KV = (*FileKV)(nil)

// NewFileKV creates a file store rooted at dir. The directory is created if
// it does not exist.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &FileKV{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

// Dir returns the directory values are stored in.
func (s *FileKV) Dir() string {
	return s.dir
}

// Path returns the file a key is stored in.
func (s *FileKV) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Get reads the file for key. Returns an error wrapping kv.ErrNotFound if it
// does not exist.
func (s *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("kv get %q lock: %w", key, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
		}
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}

	return data, nil
}

// Set atomically replaces the file for key.
func (s *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("kv set %q lock: %w", key, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	path := s.Path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	return nil
}

// Delete removes the file for key. Deleting a missing key is not an error.
func (s *FileKV) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("kv delete %q lock: %w", key, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has reports whether a file exists for key.
func (s *FileKV) Has(ctx context.Context, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	_, err := os.Stat(s.Path(key))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
}

// ListKeys returns all stored keys in sorted order.
func (s *FileKV) ListKeys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if key, ok := keyFromFilename(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}

// keyFromFilename maps a file name in the store directory back to its key.
// Temp files, the lock file, and anything else that is not a value file are
// rejected.
func keyFromFilename(name string) (string, bool) {
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExt)
	if checkKey(key) != nil {
		return "", false
	}
	return key, true
}
