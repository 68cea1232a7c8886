package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "challenges",
		sql: `
CREATE TABLE IF NOT EXISTS challenges (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  difficulty TEXT NOT NULL,
  tier TEXT NOT NULL,
  total_tasks INTEGER NOT NULL CHECK(total_tasks > 0),
  completed_tasks INTEGER NOT NULL CHECK(completed_tasks >= 0 AND completed_tasks <= total_tasks),
  status TEXT NOT NULL CHECK(status IN ('available', 'active', 'completed')),
  end_date DATETIME,
  creator TEXT NOT NULL DEFAULT '',
  reward TEXT NOT NULL DEFAULT '',
  completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_challenges_position ON challenges(position);
`,
	},
	{
		version: 3,
		name:    "meals",
		sql: `
CREATE TABLE IF NOT EXISTS meals (
  id TEXT PRIMARY KEY,
  day TEXT NOT NULL,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  meal_type TEXT NOT NULL,
  calories INTEGER NOT NULL CHECK(calories >= 0),
  protein_g INTEGER NOT NULL CHECK(protein_g >= 0),
  carbs_g INTEGER NOT NULL CHECK(carbs_g >= 0),
  fat_g INTEGER NOT NULL CHECK(fat_g >= 0),
  dietary TEXT NOT NULL DEFAULT 'None',
  time TEXT NOT NULL,
  logged_date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meals_day_position ON meals(day, position);
`,
	},
	{
		version: 4,
		name:    "workouts",
		sql: `
CREATE TABLE IF NOT EXISTS workouts (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  completed INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
  title TEXT NOT NULL,
  day TEXT NOT NULL,
  time TEXT NOT NULL,
  duration TEXT NOT NULL,
  type TEXT NOT NULL,
  intensity TEXT NOT NULL,
  completed_date TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_workouts_completed_position ON workouts(completed, position);
`,
	},
	{
		version: 5,
		name:    "leaderboard_and_badges",
		sql: `
CREATE TABLE IF NOT EXISTS leaderboard_entries (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  user_name TEXT NOT NULL UNIQUE,
  points INTEGER NOT NULL CHECK(points >= 0),
  completed_challenges INTEGER NOT NULL DEFAULT 0,
  streak INTEGER NOT NULL DEFAULT 0,
  badges_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS badges (
  name TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  unlocked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 6,
		name:    "activity_feed",
		sql: `
CREATE TABLE IF NOT EXISTS activity_feed (
  position INTEGER PRIMARY KEY,
  line TEXT NOT NULL
);
`,
	},
}

// defaultConfig holds values every database starts with. Existing values
// are never overwritten.
var defaultConfig = map[string]string{
	"water.ml": "0",
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	for key, value := range defaultConfig {
		if _, err := db.Exec(`INSERT OR IGNORE INTO app_config(key, value) VALUES(?, ?)`, key, value); err != nil {
			return fmt.Errorf("seed default config %s: %w", key, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration, or 0 on a fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}
