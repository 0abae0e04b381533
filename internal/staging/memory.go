package staging

import (
	"fmt"

	"github.com/google/uuid"
)

// memoryStore keeps staged content in memory under synthetic
// memory://staged/<uuid> paths. It is meant for tests, where a fake
// invoker reads the content back through Read.
type memoryStore struct {
	files map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (s *memoryStore) Write(content []byte) (string, error) {
	path := "memory://staged/" + uuid.New().String()
	s.files[path] = append([]byte(nil), content...)
	return path, nil
}

func (s *memoryStore) Remove(path string) error {
	delete(s.files, path)
	return nil
}

func (s *memoryStore) Read(path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("staged content not found: %s", path)
	}
	return append([]byte(nil), data...), nil
}

func (s *memoryStore) Len() int {
	return len(s.files)
}
