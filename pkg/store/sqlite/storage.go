package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const RunsSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		total_cost REAL NOT NULL,
		threshold REAL NOT NULL DEFAULT 0,
		exceeded INTEGER NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'USD',
		created_at TEXT NOT NULL
	);
`

const RunOwnersSchema = `
	CREATE TABLE IF NOT EXISTS run_owners (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		owner TEXT NOT NULL,
		total_cost REAL NOT NULL,
		resource_count INTEGER NOT NULL,
		PRIMARY KEY (run_id, owner)
	);
`

const RunsKindIndex = `CREATE INDEX IF NOT EXISTS runs_kind_created_at ON runs (kind, created_at);`

var bootQueries = []string{
	RunsSchema,
	RunOwnersSchema,
	RunsKindIndex,
}

type Settings struct {
	DbPath string
}

// NewDB opens the database and applies the schema.
func NewDB(settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// sqlite allows a single writer, and every :memory: connection is a separate database.
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return db, nil
}
