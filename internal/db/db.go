package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// pragmas run on every connection. A running `fitquest serve` and CLI
// commands may open the same file: writers wait on the lock instead of
// failing fast. The lock alone does not stop one process from saving over
// another's snapshot; service.Session versions its saves for that.
var pragmas = []string{
	`PRAGMA foreign_keys = ON;`,
	`PRAGMA busy_timeout = 5000;`,
	`PRAGMA journal_mode = WAL;`,
}

// Open opens the tracker database at path with a single connection.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", p, err)
		}
	}
	return db, nil
}
