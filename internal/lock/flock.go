package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"pwrite-go/internal/pw"
)

// FileName is the name of the lock file inside the base directory.
const FileName = "pwrite.lock"

// FlockSlot is a pw.Slot backed by an advisory file lock, so that two
// pwrite processes cannot run Apply or Restore at the same time.
// TryAcquire never blocks.
type FlockSlot struct {
	lock   *flock.Flock
	logger pw.Logger
	mu     sync.Mutex
}

var _ pw.Slot = (*FlockSlot)(nil)

// NewFlockSlot creates a slot using the lock file at path. The lock file
// itself is created on first acquire and left in place afterwards.
func NewFlockSlot(path string, logger pw.Logger) (*FlockSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	return &FlockSlot{
		lock:   flock.New(path),
		logger: logger,
	}, nil
}

// Path returns the lock file path.
func (s *FlockSlot) Path() string {
	return s.lock.Path()
}

// TryAcquire takes the lock if no other process holds it. An error from
// the lock file counts as busy.
func (s *FlockSlot) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock.Locked() {
		return false
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		s.logger.Warn("lock file unavailable", "path", s.lock.Path(), "error", err)
		return false
	}
	return ok
}

// Release drops the lock. Releasing an unheld slot is a no-op.
func (s *FlockSlot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lock.Locked() {
		return
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("releasing lock file failed", "path", s.lock.Path(), "error", err)
	}
}
