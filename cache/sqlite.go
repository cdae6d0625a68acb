package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/hobby"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	saved_at TEXT NOT NULL,
	data     BLOB NOT NULL
)`

// SQLite is a cache keeping every saved snapshot in a SQLite database, so that
// previous sessions can be recovered.
type SQLite struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLite opens or creates the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// snapshots are small and written by one session at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db, path: path, now: time.Now}, nil
}

// Load returns the most recent snapshot, or an empty state.
func (c *SQLite) Load(ctx context.Context) (hobby.State, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return hobby.NewState(), nil
	}
	if err != nil {
		return hobby.State{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return decode(data)
}

// Save appends st as the most recent snapshot.
func (c *SQLite) Save(ctx context.Context, st hobby.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO snapshots (saved_at, data) VALUES (?, ?)`,
		c.now().UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Len returns the number of snapshots kept.
func (c *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n)
	return n, err
}

// Prune deletes all but the keep most recent snapshots and returns the number
// of deleted ones.
func (c *SQLite) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1, got %d", keep)
	}
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (c *SQLite) Close() error { return c.db.Close() }
