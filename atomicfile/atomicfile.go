// Package atomicfile writes files that appear under their final name only
// once they are complete.
package atomicfile

import (
	"os"
	"path/filepath"
)

// File is written to a temporary file in the target directory and renamed
// to its final name on Close.
type File struct {
	*os.File
	path string
}

// New creates a temporary file next to path. Call Close to commit or Abort
// to discard.
func New(path string) (*File, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &File{File: f, path: path}, nil
}

// Close syncs the temporary file and renames it to the target path.
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
	return os.Rename(f.File.Name(), f.path)
}

// Abort removes the temporary file. The target path is left untouched.
func (f *File) Abort() error {
	f.File.Close()
	return os.Remove(f.File.Name())
}

// WriteFile writes data to path atomically.
func WriteFile(path string, data []byte) error {
	f, err := New(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}
