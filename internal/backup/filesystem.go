package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"pwrite-go/internal/pw"
)

// FileSystemBackupStore keeps the snapshot as a plain text file:
//
//	<dir>/
//	  <name>_backup.txt
//
// Writes go through a temp file in dir followed by a rename, so a failed
// save leaves the previous snapshot (or none) in place.
type FileSystemBackupStore struct {
	name string
	dir  string
	path string
}

// NewFileSystemBackupStore creates a store for the slot name under dir.
func NewFileSystemBackupStore(name, dir string) (*FileSystemBackupStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &FileSystemBackupStore{
		name: name,
		dir:  dir,
		path: filepath.Join(dir, FileName(name)),
	}, nil
}

// Path returns the location of the snapshot file.
func (s *FileSystemBackupStore) Path() string {
	return s.path
}

// Save atomically replaces the snapshot file.
func (s *FileSystemBackupStore) Save(content []byte) error {
	if err := atomic.WriteFile(s.path, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("%w: writing %s: %w", pw.ErrBackupIO, s.path, err)
	}
	return nil
}

// Load reads the snapshot file.
func (s *FileSystemBackupStore) Load() (*pw.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", pw.ErrBackupNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", pw.ErrBackupIO, s.path, err)
	}
	return &pw.Snapshot{Name: s.name, Content: data}, nil
}

// Exists reports whether the snapshot file is present.
func (s *FileSystemBackupStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// FileName returns the snapshot file name for a slot.
func FileName(name string) string {
	return name + "_backup.txt"
}

// Compile-time check that FileSystemBackupStore implements pw.BackupStore interface
var _ pw.BackupStore = (*FileSystemBackupStore)(nil)
