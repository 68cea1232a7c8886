package db_test

import (
	"path/filepath"
	"testing"

	"github.com/saadjs/fitquest/internal/db"
)

func TestApplyMigrationsIdempotentAndSeedsDefaults(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "fitquest.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("first apply migrations: %v", err)
	}
	if _, err := sqldb.Exec(`UPDATE app_config SET value = '750' WHERE key = 'water.ml'`); err != nil {
		t.Fatalf("update water: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("second apply migrations: %v", err)
	}

	version, err := db.SchemaVersion(sqldb)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 6 {
		t.Fatalf("expected schema version 6, got %d", version)
	}

	var migrationCount int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&migrationCount); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if migrationCount != 6 {
		t.Fatalf("expected 6 migration versions, got %d", migrationCount)
	}

	for _, table := range []string{"app_config", "challenges", "meals", "workouts", "leaderboard_entries", "badges", "activity_feed"} {
		var n int
		if err := sqldb.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n); err != nil {
			t.Fatalf("check %s table: %v", table, err)
		}
		if n != 1 {
			t.Fatalf("expected %s table to exist", table)
		}
	}

	var water string
	if err := sqldb.QueryRow(`SELECT value FROM app_config WHERE key = 'water.ml'`).Scan(&water); err != nil {
		t.Fatalf("read water: %v", err)
	}
	if water != "750" {
		t.Fatalf("expected seeded config to keep user value, got %q", water)
	}
}

func TestChallengeTasksConstraint(t *testing.T) {
	t.Parallel()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "fitquest.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	_, err = sqldb.Exec(`INSERT INTO challenges(id, position, name, type, difficulty, tier, total_tasks, completed_tasks, status)
VALUES('c1', 0, 'Over', 'Strength', 'Easy', 'Bronze', 3, 4, 'active')`)
	if err == nil {
		t.Fatalf("expected check constraint to reject completed_tasks > total_tasks")
	}
}
