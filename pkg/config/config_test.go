package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "dreams.json", filepath.Base(cfg.StorePath()))
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: SQLite
  path: /tmp/journal.db
sqlite:
  wal: true
  sync: NORMAL
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/journal.db", cfg.StorePath())
	assert.True(t, cfg.SQLite.WAL)
	assert.Equal(t, "NORMAL", cfg.SQLite.Sync)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset keys keep their defaults")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store:\n  path: /from/file.json\nlog:\n  level: info\n")
	t.Setenv("REVERIE_STORE_PATH", "/from/env.json")
	t.Setenv("REVERIE_SQLITE_WAL", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env.json", cfg.Store.Path)
	assert.True(t, cfg.SQLite.WAL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidBackend(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: postgres\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidBackend)
}

func TestLoadTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(path, make([]byte, maxConfigFileSize+1), 0600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrConfigTooLarge)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "store.path", envKey("REVERIE_STORE_PATH"))
	assert.Equal(t, "store.backend", envKey("REVERIE_STORE_BACKEND"))
	assert.Equal(t, "log.level", envKey("REVERIE_LOG_LEVEL"))
}
