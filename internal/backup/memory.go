package backup

import (
	"fmt"
	"sync"

	"pwrite-go/internal/pw"
)

// MemoryBackupStore is an in-memory implementation of the BackupStore interface.
// It is useful for testing and safe for concurrent use.
type MemoryBackupStore struct {
	name    string
	content []byte
	saved   bool
	saveErr error
	saves   int
	mu      sync.RWMutex
}

// NewMemoryBackupStore creates an empty in-memory store for the slot name.
func NewMemoryBackupStore(name string) *MemoryBackupStore {
	return &MemoryBackupStore{name: name}
}

// FailSaves makes every subsequent Save return err (nil restores normal behavior).
func (m *MemoryBackupStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns how many times Save succeeded.
func (m *MemoryBackupStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryBackupStore) Save(content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return fmt.Errorf("%w: %w", pw.ErrBackupIO, m.saveErr)
	}
	m.content = append([]byte(nil), content...)
	m.saved = true
	m.saves++
	return nil
}

func (m *MemoryBackupStore) Load() (*pw.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.saved {
		return nil, fmt.Errorf("%w: %s", pw.ErrBackupNotFound, m.name)
	}
	return &pw.Snapshot{Name: m.name, Content: append([]byte(nil), m.content...)}, nil
}

func (m *MemoryBackupStore) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saved
}

// Compile-time check that MemoryBackupStore implements pw.BackupStore interface
var _ pw.BackupStore = (*MemoryBackupStore)(nil)
