package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Default file names inside the data directory, per store backend.
const (
	JSONFileName   = "dreams.json"
	SQLiteFileName = "reverie.db"
	ConfigFileName = "config.yaml"
)

// DefaultDataDir returns a system-appropriate directory for the journal.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", "reverie")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "reverie")
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", "reverie")
	}
}

// DefaultConfigPath returns ~/.config/reverie/config.yaml, or the bare file
// name when the home directory is unknown.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(homeDir, ".config", "reverie", ConfigFileName)
}

// DefaultStorePath returns the default journal location for a backend.
func DefaultStorePath(backend string) string {
	name := JSONFileName
	if backend == "sqlite" {
		name = SQLiteFileName
	}
	return filepath.Join(DefaultDataDir(), name)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", path, err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// ResolveAndEnsurePath expands and absolutizes providedPath, falling back to
// fallback when empty, and creates its parent directory.
func ResolveAndEnsurePath(providedPath, fallback string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = fallback
	}

	targetPath, err := ExpandHome(targetPath)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}
	targetPath = absPath

	dir := filepath.Dir(targetPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s': %w", dir, err)
	}

	return targetPath, nil
}
