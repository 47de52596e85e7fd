package db

const (
	// SchemaV1 creates the journal tables. Dream ids are the journal's own
	// sequential ids; uid is a surrogate that survives whole-table rewrites.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS reverie_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS dreams (
    uid UUID PRIMARY KEY,
    id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    date TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    emotion VARCHAR(64) NOT NULL DEFAULT '',
    lucid BOOLEAN NOT NULL DEFAULT FALSE,
    sleep_quality INTEGER NOT NULL,
    sentiment VARCHAR(16) NOT NULL DEFAULT 'neutral'
);

CREATE INDEX IF NOT EXISTS dreams_position_idx ON dreams(position);

CREATE TABLE IF NOT EXISTS dream_tags (
    dream_uid UUID NOT NULL REFERENCES dreams(uid) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    tag VARCHAR(256) NOT NULL,
    PRIMARY KEY (dream_uid, position)
);
`
)
