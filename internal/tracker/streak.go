package tracker

import (
	"time"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Domain string

const (
	DomainChallenges Domain = "challenges"
	DomainNutrition  Domain = "nutrition"
)

// Anchor is the persisted streak state of one domain: the last calendar day
// the user was active and the streak length as of that day.
type Anchor struct {
	Date   string
	Streak int
}

// AnchorStore persists anchors between sessions. Implementations may fail;
// the tracker then keeps going on an in-memory anchor.
type AnchorStore interface {
	LoadAnchor(domain Domain) (Anchor, bool, error)
	SaveAnchor(domain Domain, a Anchor) error
}

// DateKey formats t as a local calendar date.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// NextAnchor applies one evaluation for day today to the previous anchor.
func NextAnchor(prev Anchor, ok bool, today string) Anchor {
	if !ok || prev.Date == "" || prev.Streak < 1 {
		return Anchor{Date: today, Streak: 1}
	}
	if prev.Date == today {
		return prev
	}
	last, err := time.ParseInLocation(dateLayout, prev.Date, time.Local)
	if err != nil {
		return Anchor{Date: today, Streak: 1}
	}
	if DateKey(last.AddDate(0, 0, 1)) == today {
		return Anchor{Date: today, Streak: prev.Streak + 1}
	}
	return Anchor{Date: today, Streak: 1}
}

type StreakTracker struct {
	domain   Domain
	store    AnchorStore
	log      *zap.Logger
	volatile bool
	anchor   Anchor
	loaded   bool
	has      bool
}

func NewStreakTracker(domain Domain, store AnchorStore, log *zap.Logger) *StreakTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &StreakTracker{domain: domain, store: store, log: log, volatile: store == nil}
}

func (t *StreakTracker) load() {
	if t.loaded {
		return
	}
	t.loaded = true
	if t.volatile {
		return
	}
	a, ok, err := t.store.LoadAnchor(t.domain)
	if err != nil {
		t.log.Warn("streak anchor unavailable, keeping it in memory", zap.String("domain", string(t.domain)), zap.Error(err))
		t.volatile = true
		return
	}
	t.anchor, t.has = a, ok
}

// Evaluate records activity on today's date and returns the resulting streak.
// Repeated calls on the same day return the same value.
func (t *StreakTracker) Evaluate(today time.Time) int {
	t.load()
	next := NextAnchor(t.anchor, t.has, DateKey(today))
	changed := !t.has || next != t.anchor
	t.anchor, t.has = next, true
	if changed && !t.volatile {
		if err := t.store.SaveAnchor(t.domain, next); err != nil {
			t.log.Warn("persist streak anchor failed, keeping it in memory", zap.String("domain", string(t.domain)), zap.Error(err))
			t.volatile = true
		}
	}
	return next.Streak
}

// Current returns the streak without recording activity.
func (t *StreakTracker) Current() int {
	t.load()
	if !t.has {
		return 0
	}
	return t.anchor.Streak
}

// reset forgets the cached anchor. A tracker that lost its store stays
// volatile and keeps its in-memory anchor.
func (t *StreakTracker) reset() {
	if t.volatile {
		return
	}
	t.loaded, t.has, t.anchor = false, false, Anchor{}
}

// Volatile reports whether the tracker lost its backing store.
func (t *StreakTracker) Volatile() bool {
	return t.volatile
}
