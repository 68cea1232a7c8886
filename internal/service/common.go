package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func validateNonNegativeInt(name string, value int) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseNullableTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value.String)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", value.String, err)
	}
	return &t, nil
}
