// Package db opens the connections used by the storage backends and applies
// the PostgreSQL schema.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Cards reference their topic but are not removed with it; topic deletion
// is not part of the API.
const schema = `
CREATE TABLE IF NOT EXISTS topics (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    topic_id TEXT NOT NULL REFERENCES topics(id),
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS cards_topic_id_idx ON cards (topic_id, created_at);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := prepare(db); err != nil {
		return nil, err
	}
	return db, nil
}

// prepare pings db and applies the schema, closing db on failure.
func prepare(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}
