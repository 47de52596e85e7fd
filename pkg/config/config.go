// Package config loads reverie settings.
//
// Precedence, highest first:
//  1. Command-line flags (applied by the CLI after Load)
//  2. REVERIE_* environment variables, e.g. REVERIE_STORE_PATH -> store.path
//  3. YAML file (~/.config/reverie/config.yaml by default)
//  4. Defaults
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/unowned-ai/reverie/pkg/utils"
)

const (
	EnvPrefix         = "REVERIE_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var (
	ErrInvalidBackend = errors.New("invalid store backend")
	ErrConfigTooLarge = errors.New("config file too large")
)

// Config is the full set of reverie settings.
type Config struct {
	Store  StoreConfig  `koanf:"store"`
	SQLite SQLiteConfig `koanf:"sqlite"`
	Log    LogConfig    `koanf:"log"`
}

// StoreConfig selects where dreams are kept. An empty Path resolves to the
// backend's default file in the data directory.
type StoreConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

type SQLiteConfig struct {
	WAL  bool   `koanf:"wal"`
	Sync string `koanf:"sync"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendJSON,
		},
		SQLite: SQLiteConfig{
			WAL:  false,
			Sync: "FULL",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads configPath (or the default path when empty) and the
// environment on top of the defaults. A missing default file is fine; a
// missing explicit file is an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	explicit := configPath != ""
	if !explicit {
		configPath = utils.DefaultConfigPath()
	}

	content, err := readConfigFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps REVERIE_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrConfigTooLarge, path, info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate checks values Load cannot coerce.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("%w '%s': expected %s or %s", ErrInvalidBackend, c.Store.Backend, BackendJSON, BackendSQLite)
	}
	return nil
}

// StorePath returns the configured path or the backend's default.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return utils.DefaultStorePath(c.Store.Backend)
}
