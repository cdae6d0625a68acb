package httpapi

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/hobby"
)

// DefaultBackupName is the base name of backups when none is configured.
const DefaultBackupName = "backup"

// Backup is a Job exporting the store as a timestamped workbook into a directory.
type Backup struct {
	store *hobby.Store
	dir   string
	base  string
	now   func() time.Time
}

// NewBackup creates a backup job of store into dir.
func NewBackup(store *hobby.Store, dir, base string) *Backup {
	if base == "" {
		base = DefaultBackupName
	}
	return &Backup{store: store, dir: dir, base: base, now: time.Now}
}

func (b *Backup) Name() string { return "backup" }

// Run writes one backup file.
func (b *Backup) Run() error {
	var buf bytes.Buffer
	filename, err := b.store.Export(&buf, b.base, b.now())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create backup directory: %w", err)
	}
	return os.WriteFile(filepath.Join(b.dir, filename), buf.Bytes(), 0o644)
}
