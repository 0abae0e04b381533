package staging

import (
	"fmt"
	"sync"

	"pwrite-go/internal/pw"
)

// stagingArea implements pw.StagingArea using a pluggable stagingStore
// for the storage mechanics. All shared algorithm logic lives here.
type stagingArea struct {
	store   stagingStore
	maxSize int64
	logger  pw.Logger
	mu      sync.Mutex
}

var _ pw.StagingArea = (*stagingArea)(nil)

// WithStagedContent writes content, calls fn with the staged path and
// removes the path again on every exit path, including a panic in fn.
// A failed removal is logged; the result of fn is returned unchanged.
func (s *stagingArea) WithStagedContent(content []byte, fn func(path string) error) error {
	if int64(len(content)) > s.maxSize {
		return fmt.Errorf("%w: content is %d bytes, max is %d", pw.ErrStagingIO, len(content), s.maxSize)
	}

	s.mu.Lock()
	path, err := s.store.Write(content)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %w", pw.ErrStagingIO, err)
	}

	defer func() {
		s.mu.Lock()
		rmErr := s.store.Remove(path)
		s.mu.Unlock()
		if rmErr != nil {
			s.logger.Error("removing staged content failed", "path", path, "error", rmErr)
		}
	}()

	s.logger.Debug("content staged", "path", path, "size", len(content))
	return fn(path)
}

// Read returns staged content by path. Only valid while fn runs.
func (s *stagingArea) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Read(path)
}

// Pending returns the number of staged artifacts still present.
// Outside of a WithStagedContent call this is always zero.
func (s *stagingArea) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}
