// Package atomicfile writes files, which appear under their final name only
// after a successful Close.
package atomicfile

import (
	"os"
	"path/filepath"
)

// File is a temporary file, renamed to its destination on Close.
type File struct {
	*os.File
	dst string
}

// New creates a temporary file next to the destination path.
func New(dst string) (*File, error) {
	dir, base := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &File{File: f, dst: dst}, nil
}

// Close syncs and closes the temporary file and moves it into place.
func (f *File) Close() error {
	if err := f.File.Sync(); err != nil {
		f.Abort()
		return err
	}
	if err := f.File.Close(); err != nil {
		os.Remove(f.File.Name())
		return err
	}
	if err := os.Chmod(f.File.Name(), 0644); err != nil {
		os.Remove(f.File.Name())
		return err
	}
	return os.Rename(f.File.Name(), f.dst)
}

// Abort discards the temporary file.
func (f *File) Abort() error {
	f.File.Close()
	return os.Remove(f.File.Name())
}

// WriteFile is like os.WriteFile, but atomic.
func WriteFile(dst string, data []byte) error {
	f, err := New(dst)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}
