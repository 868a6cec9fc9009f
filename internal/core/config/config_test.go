package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, &want, cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("", "/tmp/taskr")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/taskr", cfg.DataDir)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: sqlite
tui:
  show_help: false
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.True(t, cfg.Storage.SeedSamples, "unset bools keep their defaults")
	assert.True(t, cfg.Storage.ReseedEmpty)
	assert.False(t, cfg.TUI.ShowHelp)
	assert.True(t, cfg.TUI.Watch)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
}

func TestLoad_ExplicitFalse(t *testing.T) {
	path := writeConfig(t, `
storage:
  seed_samples: false
  reseed_empty: false
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.Storage.SeedSamples)
	assert.False(t, cfg.Storage.ReseedEmpty)
}

func TestLoad_ZeroValuesGetDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: ""
database:
  max_open_conns: 0
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
}

func TestLoad_DataDirIgnoredInFile(t *testing.T) {
	path := writeConfig(t, "DataDir: /elsewhere\n")

	cfg, err := Load(path, "/from/flag")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.DataDir)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		dataDir string
		wantErr string
	}{
		{"bad yaml", "storage: [", "/tmp/x", "parse config file"},
		{"unknown backend", "storage:\n  backend: redis\n", "/tmp/x", "storage.backend"},
		{"negative idle", "database:\n  max_idle_conns: -1\n", "/tmp/x", "max_idle_conns"},
		{"no data dir", "", "", "data directory"},
		{"unknown theme", "tui:\n  theme: neon\n", "/tmp/x", "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), tt.dataDir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsValidBackend(t *testing.T) {
	assert.True(t, IsValidBackend(BackendFile))
	assert.True(t, IsValidBackend(BackendSQLite))
	assert.True(t, IsValidBackend(BackendMemory))
	assert.False(t, IsValidBackend(""))
	assert.False(t, IsValidBackend("File"))
}

func TestPaths(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "kv"), cfg.KVDir())
	assert.Equal(t, filepath.Join("/data", "taskr.log"), cfg.LogFile())
}
