package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/saadjs/fitquest/internal/tracker"
)

type anchorKeys struct {
	date   string
	streak string
}

var anchorKeysByDomain = map[tracker.Domain]anchorKeys{
	tracker.DomainChallenges: {date: ConfigLastChallengeDate, streak: ConfigChallengeStreak},
	tracker.DomainNutrition:  {date: ConfigLastLoggedDate, streak: ConfigLoggingStreak},
}

// Anchors stores streak anchors in app_config. Saved anchors are held back
// until the owning session commits, so they land in the same transaction as
// the snapshot they belong to.
type Anchors struct {
	DB      *sql.DB
	pending map[tracker.Domain]tracker.Anchor
}

func (a *Anchors) LoadAnchor(domain tracker.Domain) (tracker.Anchor, bool, error) {
	keys, ok := anchorKeysByDomain[domain]
	if !ok {
		return tracker.Anchor{}, false, fmt.Errorf("unknown streak domain %q", domain)
	}
	if p, ok := a.pending[domain]; ok {
		return p, true, nil
	}
	date, ok, err := GetConfig(a.DB, keys.date)
	if err != nil || !ok {
		return tracker.Anchor{}, false, err
	}
	raw, ok, err := GetConfig(a.DB, keys.streak)
	if err != nil {
		return tracker.Anchor{}, false, err
	}
	streak := 1
	if ok {
		streak, err = strconv.Atoi(raw)
		if err != nil {
			return tracker.Anchor{}, false, fmt.Errorf("parse %s: %w", keys.streak, err)
		}
	}
	return tracker.Anchor{Date: date, Streak: streak}, true, nil
}

func (a *Anchors) SaveAnchor(domain tracker.Domain, anchor tracker.Anchor) error {
	if _, ok := anchorKeysByDomain[domain]; !ok {
		return fmt.Errorf("unknown streak domain %q", domain)
	}
	if a.pending == nil {
		a.pending = map[tracker.Domain]tracker.Anchor{}
	}
	a.pending[domain] = anchor
	return nil
}

// Pending reports whether anchors are waiting for a commit.
func (a *Anchors) Pending() bool {
	return len(a.pending) > 0
}

func (a *Anchors) flush(tx *sql.Tx) error {
	for domain, anchor := range a.pending {
		keys := anchorKeysByDomain[domain]
		if err := SetConfig(tx, keys.date, anchor.Date); err != nil {
			return err
		}
		if err := SetConfig(tx, keys.streak, strconv.Itoa(anchor.Streak)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Anchors) discard() {
	a.pending = nil
}
