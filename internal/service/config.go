package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Keys owned by the tracker itself. They are stored next to user overrides
// but are not meant to be edited by hand.
const (
	ConfigLastChallengeDate = "lastChallengeDate"
	ConfigChallengeStreak   = "challengeStreak"
	ConfigLastLoggedDate    = "lastLoggedDate"
	ConfigLoggingStreak     = "loggingStreak"
	ConfigWaterMl           = "water.ml"
	ConfigWaterDate         = "water.date"
	ConfigHeatmap           = "heatmap"
	ConfigSeededAt          = "seeded_at"
	ConfigSnapshotVersion   = "snapshot.version"
)

var internalKeys = map[string]bool{
	ConfigLastChallengeDate: true,
	ConfigChallengeStreak:   true,
	ConfigLastLoggedDate:    true,
	ConfigLoggingStreak:     true,
	ConfigWaterMl:           true,
	ConfigWaterDate:         true,
	ConfigHeatmap:           true,
	ConfigSeededAt:          true,
	ConfigSnapshotVersion:   true,
}

// IsInternalKey reports whether key is bookkeeping rather than a user setting.
func IsInternalKey(key string) bool {
	return internalKeys[strings.TrimSpace(key)]
}

// intKeys are user settings that must hold non-negative integers.
var intKeys = map[string]bool{
	"nutrition.calorie_goal":  true,
	"nutrition.protein_goal":  true,
	"nutrition.carbs_goal":    true,
	"nutrition.fat_goal":      true,
	"nutrition.water_goal_ml": true,
	"points.join":             true,
	"points.create":           true,
	"points.complete":         true,
	"badges.challenge_master": true,
	"badges.seven_day_fire":   true,
	"badges.point_legend":     true,
	"badges.ten_meals":        true,
	"badges.logging_streak":   true,
	"leaderboard.page_size":   true,
	"feed.size":               true,
}

// ValidateSetting checks a user-supplied override before it is stored.
func ValidateSetting(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	if IsInternalKey(key) {
		return fmt.Errorf("config key %q is managed by fitquest", key)
	}
	if intKeys[key] {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s must be an integer", key)
		}
		return validateNonNegativeInt(key, n)
	}
	return nil
}

func SetConfig(db execer, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

// UserSettings returns stored overrides without the tracker's own keys.
func UserSettings(db *sql.DB) (map[string]string, error) {
	all, err := ListConfig(db)
	if err != nil {
		return nil, err
	}
	for key := range all {
		if IsInternalKey(key) {
			delete(all, key)
		}
	}
	return all, nil
}
