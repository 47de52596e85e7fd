package dreams

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/unowned-ai/reverie/pkg/sentiment"
)

const (
	listDreamsStatement = `
	SELECT uid, id, date, title, description, emotion, lucid, sleep_quality, sentiment
	FROM dreams
	ORDER BY position ASC
	`

	listDreamTagsStatement = `
	SELECT dream_uid, tag
	FROM dream_tags
	ORDER BY dream_uid, position ASC
	`

	listDreamKeysStatement = `
	SELECT uid, id, date FROM dreams
	`

	deleteDreamsStatement = `
	DELETE FROM dreams
	`

	insertDreamStatement = `
	INSERT INTO dreams (uid, id, position, date, title, description, emotion, lucid, sleep_quality, sentiment)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	insertDreamTagStatement = `
	INSERT INTO dream_tags (dream_uid, position, tag)
	VALUES (?, ?, ?)
	`
)

// SQLiteStore keeps the journal in the dreams and dream_tags tables. The
// schema must have been created with db.UpgradeDB.
type SQLiteStore struct {
	DB *sql.DB
}

// NewSQLiteStore returns a store over an open connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

// Load returns all dreams in append order. A database without the journal
// tables is an empty journal.
func (s *SQLiteStore) Load(ctx context.Context) ([]Dream, error) {
	rows, err := s.DB.QueryContext(ctx, listDreamsStatement)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return []Dream{}, nil
		}
		return nil, fmt.Errorf("failed to query dreams: %w", err)
	}
	defer rows.Close()

	dreams := []Dream{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var d Dream
		var uid uuid.UUID
		var label string
		err := rows.Scan(
			&uid,
			&d.ID,
			&d.Date,
			&d.Title,
			&d.Description,
			&d.Emotion,
			&d.Lucid,
			&d.SleepQuality,
			&label,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dream row: %w", err)
		}
		d.Sentiment = sentiment.Label(label)
		d.Tags = []string{}
		index[uid] = len(dreams)
		dreams = append(dreams, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dream rows: %w", err)
	}

	tagRows, err := s.DB.QueryContext(ctx, listDreamTagsStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query dream tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var uid uuid.UUID
		var tag string
		if err := tagRows.Scan(&uid, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan dream tag row: %w", err)
		}
		if i, ok := index[uid]; ok {
			dreams[i].Tags = append(dreams[i].Tags, tag)
		}
	}
	if err = tagRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dream tag rows: %w", err)
	}

	return dreams, nil
}

// Save replaces the stored journal with dreams in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, dreams []Dream) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	uids, err := existingUIDs(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deleteDreamsStatement); err != nil {
		return fmt.Errorf("failed to clear dreams: %w", err)
	}

	for pos, d := range dreams {
		uid, ok := uids[dreamKey{d.ID, d.Date}]
		if !ok {
			uid = uuid.New()
		}
		_, err := tx.ExecContext(
			ctx,
			insertDreamStatement,
			uid,
			d.ID,
			pos,
			d.Date,
			d.Title,
			d.Description,
			d.Emotion,
			d.Lucid,
			d.SleepQuality,
			string(d.Sentiment),
		)
		if err != nil {
			return fmt.Errorf("failed to insert dream %d: %w", d.ID, err)
		}

		for i, tag := range d.Tags {
			if _, err := tx.ExecContext(ctx, insertDreamTagStatement, uid, i, tag); err != nil {
				return fmt.Errorf("failed to insert tag '%s' for dream %d: %w", tag, d.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dreams: %w", err)
	}
	return nil
}

type dreamKey struct {
	id   int
	date string
}

func existingUIDs(ctx context.Context, tx *sql.Tx) (map[dreamKey]uuid.UUID, error) {
	rows, err := tx.QueryContext(ctx, listDreamKeysStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query dream keys: %w", err)
	}
	defer rows.Close()

	uids := map[dreamKey]uuid.UUID{}
	for rows.Next() {
		var uid uuid.UUID
		var key dreamKey
		if err := rows.Scan(&uid, &key.id, &key.date); err != nil {
			return nil, fmt.Errorf("failed to scan dream key: %w", err)
		}
		uids[key] = uid
	}
	return uids, rows.Err()
}
