package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// Options controls how the journal database is opened.
type Options struct {
	WAL  bool   // journal_mode=WAL
	Sync string // synchronous pragma: OFF, NORMAL, FULL or EXTRA
}

// DSN builds the go-sqlite3 data source name for path.
func (o Options) DSN(path string) (string, error) {
	params := url.Values{}
	if o.WAL {
		params.Add("_journal_mode", "WAL")
	}
	if o.Sync != "" {
		sync := strings.ToUpper(o.Sync)
		if !validSyncModes[sync] {
			return "", fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", o.Sync)
		}
		params.Add("_synchronous", sync)
	}
	params.Add("_foreign_keys", "on")

	if strings.Contains(path, "?") {
		return path + "&" + params.Encode(), nil
	}
	return path + "?" + params.Encode(), nil
}

// Open connects to the SQLite database at path and verifies the connection.
func Open(path string, opts Options) (*sql.DB, error) {
	dsn, err := opts.DSN(path)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}

	// An in-memory database lives only as long as its connection.
	if path == MemoryDSN {
		conn.SetMaxOpenConns(1)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}

	return conn, nil
}
