package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/saadjs/fitquest/internal/db"
)

var testNow = time.Date(2024, 3, 11, 9, 30, 0, 0, time.Local)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "fitquest.db"))
}

// openTestDB opens path as its own handle, the way a second fitquest
// process would.
func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}
