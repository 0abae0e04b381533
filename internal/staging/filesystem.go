package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// filePrefix names staged files so leftovers are easy to identify.
const filePrefix = "pwrite-staged-"

// fileSystemStore keeps staged content as temp files in dir.
// Files are world-readable so the elevated copy can read them even when
// the helper drops to a different user before running cp.
type fileSystemStore struct {
	dir   string
	mu    sync.Mutex
	paths map[string]struct{}
}

func newFileSystemStore(dir string) (*fileSystemStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &fileSystemStore{dir: dir, paths: make(map[string]struct{})}, nil
}

func (s *fileSystemStore) Write(content []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, filePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	s.mu.Lock()
	s.paths[path] = struct{}{}
	s.mu.Unlock()
	return path, nil
}

func (s *fileSystemStore) Remove(path string) error {
	s.mu.Lock()
	delete(s.paths, path)
	s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *fileSystemStore) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *fileSystemStore) Len() int {
	matches, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*"))
	if err != nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range matches {
		if _, ok := s.paths[m]; ok {
			n++
		}
	}
	return n
}
