package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/hobby"
)

// File is a cache holding a single msgpack snapshot in a file.
type File struct {
	path string
}

// NewFile returns a cache stored at path. The file is created on first Save.
func NewFile(path string) *File { return &File{path: path} }

// Load reads the snapshot file. A missing file is an empty state.
func (f *File) Load(_ context.Context) (hobby.State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return hobby.NewState(), nil
	}
	if err != nil {
		return hobby.State{}, err
	}
	st, err := decode(data)
	if err != nil {
		return hobby.State{}, fmt.Errorf("cannot load %s: %w", f.path, err)
	}
	return st, nil
}

// Save replaces the snapshot file. The file is either the previous or the new
// snapshot, never a partial one.
func (f *File) Save(_ context.Context, st hobby.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	return atomicWrite(f.path, data)
}

// Close does nothing.
func (f *File) Close() error { return nil }

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*.hb")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
