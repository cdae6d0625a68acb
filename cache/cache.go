// Package cache persists the state of a hobby.Store between sessions.
//
// A cache only stores snapshots: it never interprets them. The store is
// restored from the latest snapshot when a session starts and a new snapshot is
// saved after every change.
package cache

import (
	"context"
	"fmt"

	"github.com/etnz/hobby"
)

// Cache loads and saves store snapshots.
type Cache interface {
	// Load returns the latest saved state, or an empty state if none was saved.
	Load(ctx context.Context) (hobby.State, error)
	// Save stores st as the latest state.
	Save(ctx context.Context, st hobby.State) error
	Close() error
}

// Kinds of cache accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open opens the cache of the given kind at path.
func Open(kind, path string) (Cache, error) {
	switch kind {
	case KindFile, "":
		return NewFile(path), nil
	case KindSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown cache kind %q, want %q or %q", kind, KindFile, KindSQLite)
	}
}

// Bind restores s from c and saves every change of s back into c.
//
// Save failures are reported to onError, they do not roll back the change.
func Bind(ctx context.Context, c Cache, s *hobby.Store, onError func(error)) error {
	st, err := c.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.Restore(st); err != nil {
		return fmt.Errorf("cannot restore cached state: %w", err)
	}
	s.OnChange(func(st hobby.State) {
		if err := c.Save(ctx, st); err != nil && onError != nil {
			onError(err)
		}
	})
	return nil
}
