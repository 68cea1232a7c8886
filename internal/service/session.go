package service

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saadjs/fitquest/internal/tracker"
)

// Session is one unit of work against the tracker: it loads the stored state
// into a Store and writes it back on Commit.
//
// Sessions over the same file may live in different processes. Each one
// remembers the snapshot version it loaded, and Commit refuses to overwrite a
// snapshot another session saved in the meantime.
type Session struct {
	DB      *sql.DB
	Store   *tracker.Store
	log     *zap.Logger
	now     func() time.Time
	anchors *Anchors
	version int64
}

// OpenSession seeds an empty database, loads its state and wires the streak
// anchors to app_config. opts.Anchors is always replaced.
func OpenSession(db *sql.DB, opts tracker.Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seeded, err := SeedIfEmpty(db, opts.Now())
	if err != nil {
		return nil, err
	}
	if seeded {
		opts.Logger.Info("seeded tracker database")
	}
	// The version is read before the rows: a save landing in between makes
	// the next commit stale instead of silently overwriting it.
	version, err := SnapshotVersion(db)
	if err != nil {
		return nil, err
	}
	st, err := LoadState(db, opts.Now())
	if err != nil {
		return nil, fmt.Errorf("load tracker state: %w", err)
	}
	anchors := &Anchors{DB: db}
	opts.Anchors = anchors
	return &Session{
		DB:      db,
		Store:   tracker.New(opts, st),
		log:     opts.Logger,
		now:     opts.Now,
		anchors: anchors,
		version: version,
	}, nil
}

// Version is the snapshot version the store was loaded from or last saved as.
func (s *Session) Version() int64 {
	return s.version
}

// Commit persists the current store state together with any streak anchors
// evaluated since the last commit. It fails with ErrStaleSnapshot when another
// session saved first.
func (s *Session) Commit() error {
	next, err := saveState(s.DB, s.Store.State(), s.now(), s.version, s.anchors)
	if err != nil {
		return err
	}
	s.anchors.discard()
	s.version = next
	s.log.Debug("tracker state saved", zap.Int64("version", next))
	return nil
}

// Sync reloads the store when another session saved a newer snapshot. It
// reports whether it did.
func (s *Session) Sync() (bool, error) {
	stored, err := SnapshotVersion(s.DB)
	if err != nil {
		return false, err
	}
	if stored == s.version {
		return false, nil
	}
	st, err := LoadState(s.DB, s.now())
	if err != nil {
		return false, fmt.Errorf("reload tracker state: %w", err)
	}
	s.anchors.discard()
	s.Store.Restore(st)
	s.log.Info("tracker state reloaded", zap.Int64("from", s.version), zap.Int64("to", stored))
	s.version = stored
	return true, nil
}

// Rollback drops uncommitted changes by putting st back into the store.
func (s *Session) Rollback(st tracker.State) {
	s.anchors.discard()
	s.Store.Restore(st)
}
