package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/unowned-ai/reverie/pkg/config"
	pkgdb "github.com/unowned-ai/reverie/pkg/db"
	"github.com/unowned-ai/reverie/pkg/dreams"
	"github.com/unowned-ai/reverie/pkg/utils"
)

// openJournal opens the configured store and loads the journal from it. The
// returned closer releases the store and must be called once the journal is
// no longer used.
func openJournal(ctx context.Context) (*dreams.Journal, func() error, string, error) {
	path, err := utils.ResolveAndEnsurePath(cfg.StorePath(), "")
	if err != nil {
		return nil, nil, "", err
	}

	var (
		store  dreams.Store
		closer = func() error { return nil }
	)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		dbConn, err := openDB(path)
		if err != nil {
			return nil, nil, "", err
		}
		store = dreams.NewSQLiteStore(dbConn)
		closer = dbConn.Close
	default:
		store = dreams.NewFileStore(path)
	}

	logger.Debug("opening journal", zap.String("backend", cfg.Store.Backend), zap.String("path", path))
	j, err := dreams.Open(ctx, store, dreams.WithLogger(logger))
	if err != nil {
		closer()
		return nil, nil, "", err
	}
	return j, closer, filepath.Base(path), nil
}

// openDB opens the SQLite journal and brings its schema up to date.
func openDB(path string) (*sql.DB, error) {
	dbConn, err := pkgdb.Open(path, pkgdb.Options{WAL: cfg.SQLite.WAL, Sync: cfg.SQLite.Sync})
	if err != nil {
		return nil, err
	}
	if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion, logger); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to prepare database at %s: %w", path, err)
	}
	return dbConn, nil
}

func printDream(w io.Writer, d dreams.Dream) {
	fmt.Fprintln(w, "Dream Details:")
	fmt.Fprintf(w, "ID:            %d\n", d.ID)
	fmt.Fprintf(w, "Date:          %s\n", d.Date)
	fmt.Fprintf(w, "Title:         %s\n", d.Title)
	fmt.Fprintf(w, "Emotion:       %s\n", d.EmotionLabel())
	fmt.Fprintf(w, "Lucid:         %t\n", d.Lucid)
	fmt.Fprintf(w, "Tags:          %s\n", formatTags(d.Tags))
	fmt.Fprintf(w, "Sleep Quality: %d/10\n", d.SleepQuality)
	fmt.Fprintf(w, "Sentiment:     %s\n", formatSentiment(d))
	fmt.Fprintln(w, "\nDescription:")
	fmt.Fprintln(w, "------------------------------------------------------------")
	fmt.Fprintln(w, d.Description)
	fmt.Fprintln(w, "------------------------------------------------------------")
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "none"
	}
	return strings.Join(tags, ", ")
}

func formatSentiment(d dreams.Dream) string {
	if d.Sentiment == "" {
		return "unknown"
	}
	return string(d.Sentiment)
}
