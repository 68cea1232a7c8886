package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/tracker"
)

// ErrStaleSnapshot is returned by a save whose base version is older than
// the snapshot on disk: another process committed in between.
var ErrStaleSnapshot = errors.New("tracker state was changed by another fitquest process")

type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// SnapshotVersion returns the version of the stored snapshot. It is 0 until
// the first save and grows by one with every save.
func SnapshotVersion(db *sql.DB) (int64, error) {
	return snapshotVersion(db)
}

func snapshotVersion(q rowQuerier) (int64, error) {
	var raw string
	err := q.QueryRow(`SELECT value FROM app_config WHERE key = ?`, ConfigSnapshotVersion).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read snapshot version: %w", err)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", ConfigSnapshotVersion, err)
	}
	return v, nil
}

// IsSeeded reports whether the database already holds tracker state.
func IsSeeded(db *sql.DB) (bool, error) {
	_, ok, err := GetConfig(db, ConfigSeededAt)
	return ok, err
}

// SeedIfEmpty writes the starter challenges, workouts and leaderboard into a
// database that has never held tracker state. It reports whether it did.
func SeedIfEmpty(db *sql.DB, now time.Time) (bool, error) {
	seeded, err := IsSeeded(db)
	if err != nil {
		return false, err
	}
	if seeded {
		return false, nil
	}
	if _, err := SaveState(db, tracker.SeedState(now), now, 0); err != nil {
		if errors.Is(err, ErrStaleSnapshot) {
			return false, nil
		}
		return false, fmt.Errorf("seed tracker state: %w", err)
	}
	return true, nil
}

// LoadState reads the persisted tracker state. Water intake logged on an
// earlier day than today reads as zero.
func LoadState(db *sql.DB, today time.Time) (tracker.State, error) {
	st := tracker.State{Meals: map[model.Weekday][]model.Meal{}}
	var err error
	if st.Challenges, err = loadChallenges(db); err != nil {
		return st, err
	}
	if err := loadMeals(db, st.Meals); err != nil {
		return st, err
	}
	if st.Workouts, st.CompletedWorkouts, err = loadWorkouts(db); err != nil {
		return st, err
	}
	if st.Leaderboard, err = loadLeaderboard(db); err != nil {
		return st, err
	}
	if st.Badges, err = loadStrings(db, `SELECT name FROM badges ORDER BY position ASC`, "badges"); err != nil {
		return st, err
	}
	if st.Feed, err = loadStrings(db, `SELECT line FROM activity_feed ORDER BY position ASC`, "activity feed"); err != nil {
		return st, err
	}

	cfg, err := ListConfig(db)
	if err != nil {
		return st, err
	}
	if cfg[ConfigWaterDate] == tracker.DateKey(today) {
		if st.WaterMl, err = strconv.Atoi(cfg[ConfigWaterMl]); err != nil {
			return st, fmt.Errorf("parse %s: %w", ConfigWaterMl, err)
		}
	}
	if raw := cfg[ConfigHeatmap]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &st.Heatmap); err != nil {
			return st, fmt.Errorf("decode heatmap: %w", err)
		}
	}
	return st, nil
}

func loadChallenges(db *sql.DB) ([]model.Challenge, error) {
	rows, err := db.Query(`
SELECT id, name, type, difficulty, tier, total_tasks, completed_tasks, status, end_date, creator, reward, completed_at
FROM challenges
ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()
	var out []model.Challenge
	for rows.Next() {
		var c model.Challenge
		var endDate, completedAt sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Difficulty, &c.Tier, &c.TotalTasks, &c.CompletedTasks, &c.Status, &endDate, &c.Creator, &c.Reward, &completedAt); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		if c.EndDate, err = parseNullableTime(endDate); err != nil {
			return nil, fmt.Errorf("challenge %s end date: %w", c.ID, err)
		}
		if c.CompletedAt, err = parseNullableTime(completedAt); err != nil {
			return nil, fmt.Errorf("challenge %s completed at: %w", c.ID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate challenges: %w", err)
	}
	return out, nil
}

func loadMeals(db *sql.DB, into map[model.Weekday][]model.Meal) error {
	rows, err := db.Query(`
SELECT id, day, name, meal_type, calories, protein_g, carbs_g, fat_g, dietary, time, logged_date
FROM meals
ORDER BY day ASC, position ASC`)
	if err != nil {
		return fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.Day, &m.Name, &m.MealType, &m.Calories, &m.Macros.Protein, &m.Macros.Carbs, &m.Macros.Fat, &m.Dietary, &m.Time, &m.LoggedDate); err != nil {
			return fmt.Errorf("scan meal: %w", err)
		}
		into[m.Day] = append(into[m.Day], m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate meals: %w", err)
	}
	return nil
}

func loadWorkouts(db *sql.DB) (active, completed []model.Workout, err error) {
	rows, err := db.Query(`
SELECT id, completed, title, day, time, duration, type, intensity, completed_date
FROM workouts
ORDER BY completed ASC, position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w model.Workout
		var done int
		if err := rows.Scan(&w.ID, &done, &w.Title, &w.Day, &w.Time, &w.Duration, &w.Type, &w.Intensity, &w.CompletedDate); err != nil {
			return nil, nil, fmt.Errorf("scan workout: %w", err)
		}
		if done == 1 {
			completed = append(completed, w)
		} else {
			active = append(active, w)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate workouts: %w", err)
	}
	return active, completed, nil
}

func loadLeaderboard(db *sql.DB) ([]model.LeaderboardEntry, error) {
	rows, err := db.Query(`
SELECT id, user_name, points, completed_challenges, streak, badges_json
FROM leaderboard_entries
ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()
	var out []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var badges string
		if err := rows.Scan(&e.ID, &e.User, &e.Points, &e.CompletedChallenges, &e.Streak, &badges); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		if err := json.Unmarshal([]byte(badges), &e.Badges); err != nil {
			return nil, fmt.Errorf("decode badges of %s: %w", e.User, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return out, nil
}

func loadStrings(db *sql.DB, query, what string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

// SaveState replaces the persisted snapshot with st in one transaction and
// returns the new snapshot version. base is the version st was loaded from;
// when the stored snapshot has moved past it the save is refused with
// ErrStaleSnapshot and nothing is written.
func SaveState(db *sql.DB, st tracker.State, now time.Time, base int64) (int64, error) {
	return saveState(db, st, now, base, nil)
}

func saveState(db *sql.DB, st tracker.State, now time.Time, base int64, anchors *Anchors) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Writing first takes the write lock before the version is compared.
	if _, err := tx.Exec(`INSERT OR IGNORE INTO app_config(key, value) VALUES(?, '0')`, ConfigSnapshotVersion); err != nil {
		return 0, fmt.Errorf("claim snapshot version: %w", err)
	}
	current, err := snapshotVersion(tx)
	if err != nil {
		return 0, err
	}
	if current != base {
		return 0, fmt.Errorf("%w (loaded version %d, stored version %d)", ErrStaleSnapshot, base, current)
	}
	if err := writeState(tx, st, now); err != nil {
		return 0, err
	}
	if anchors != nil {
		if err := anchors.flush(tx); err != nil {
			return 0, err
		}
	}
	next := base + 1
	if err := SetConfig(tx, ConfigSnapshotVersion, strconv.FormatInt(next, 10)); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save tx: %w", err)
	}
	return next, nil
}

func writeState(tx *sql.Tx, st tracker.State, now time.Time) error {
	if err := clearState(tx); err != nil {
		return err
	}
	for i, c := range st.Challenges {
		if _, err := tx.Exec(`
INSERT INTO challenges(id, position, name, type, difficulty, tier, total_tasks, completed_tasks, status, end_date, creator, reward, completed_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.Name, c.Type, c.Difficulty, c.Tier, c.TotalTasks, c.CompletedTasks, c.Status, nullableTime(c.EndDate), c.Creator, c.Reward, nullableTime(c.CompletedAt)); err != nil {
			return fmt.Errorf("save challenge %q: %w", c.Name, err)
		}
	}
	for _, day := range model.Weekdays {
		for i, m := range st.Meals[day] {
			if _, err := tx.Exec(`
INSERT INTO meals(id, day, position, name, meal_type, calories, protein_g, carbs_g, fat_g, dietary, time, logged_date)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				m.ID, day, i, m.Name, m.MealType, m.Calories, m.Macros.Protein, m.Macros.Carbs, m.Macros.Fat, m.Dietary, m.Time, m.LoggedDate); err != nil {
				return fmt.Errorf("save meal %q: %w", m.Name, err)
			}
		}
	}
	if err := saveWorkouts(tx, st.Workouts, 0); err != nil {
		return err
	}
	if err := saveWorkouts(tx, st.CompletedWorkouts, 1); err != nil {
		return err
	}
	for i, e := range st.Leaderboard {
		badges := e.Badges
		if badges == nil {
			badges = []string{}
		}
		raw, err := json.Marshal(badges)
		if err != nil {
			return fmt.Errorf("encode badges of %s: %w", e.User, err)
		}
		if _, err := tx.Exec(`
INSERT INTO leaderboard_entries(id, position, user_name, points, completed_challenges, streak, badges_json)
VALUES(?, ?, ?, ?, ?, ?, ?)`, e.ID, i, e.User, e.Points, e.CompletedChallenges, e.Streak, string(raw)); err != nil {
			return fmt.Errorf("save leaderboard entry %q: %w", e.User, err)
		}
	}
	for i, b := range st.Badges {
		if _, err := tx.Exec(`INSERT INTO badges(name, position) VALUES(?, ?)`, b, i); err != nil {
			return fmt.Errorf("save badge %q: %w", b, err)
		}
	}
	for i, line := range st.Feed {
		if _, err := tx.Exec(`INSERT INTO activity_feed(position, line) VALUES(?, ?)`, i, line); err != nil {
			return fmt.Errorf("save feed line: %w", err)
		}
	}

	heatmap, err := json.Marshal(st.Heatmap)
	if err != nil {
		return fmt.Errorf("encode heatmap: %w", err)
	}
	settings := map[string]string{
		ConfigWaterMl:   strconv.Itoa(st.WaterMl),
		ConfigWaterDate: tracker.DateKey(now),
		ConfigHeatmap:   string(heatmap),
	}
	for key, value := range settings {
		if err := SetConfig(tx, key, value); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`INSERT OR IGNORE INTO app_config(key, value) VALUES(?, ?)`, ConfigSeededAt, now.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("mark seeded: %w", err)
	}
	return nil
}

func saveWorkouts(tx *sql.Tx, workouts []model.Workout, completed int) error {
	for i, w := range workouts {
		if _, err := tx.Exec(`
INSERT INTO workouts(id, position, completed, title, day, time, duration, type, intensity, completed_date)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			w.ID, i, completed, w.Title, w.Day, w.Time, w.Duration, w.Type, w.Intensity, w.CompletedDate); err != nil {
			return fmt.Errorf("save workout %q: %w", w.Title, err)
		}
	}
	return nil
}

func clearState(tx *sql.Tx) error {
	stmts := []string{
		`DELETE FROM challenges`,
		`DELETE FROM meals`,
		`DELETE FROM workouts`,
		`DELETE FROM leaderboard_entries`,
		`DELETE FROM badges`,
		`DELETE FROM activity_feed`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("clear tracker state: %w", err)
		}
	}
	return nil
}
