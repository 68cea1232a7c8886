package tracker

import (
	"context"
	"errors"
)

// ErrLoopStopped is returned for updates submitted after the loop exited.
var ErrLoopStopped = errors.New("tracker loop stopped")

// Loop owns a Store and applies updates to it one at a time from a single
// goroutine. Timers and request handlers submit closures instead of touching
// the store directly.
type Loop struct {
	store   *Store
	updates chan func(*Store)
	done    chan struct{}
}

func NewLoop(store *Store) *Loop {
	return &Loop{
		store:   store,
		updates: make(chan func(*Store)),
		done:    make(chan struct{}),
	}
}

// Run drains updates until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.updates:
			fn(l.store)
		}
	}
}

// Submit queues fn without waiting for it to run.
func (l *Loop) Submit(ctx context.Context, fn func(*Store)) error {
	select {
	case l.updates <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*Store) error) error {
	result := make(chan error, 1)
	if err := l.Submit(ctx, func(s *Store) { result <- fn(s) }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
