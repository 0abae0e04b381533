package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"pwrite-go/internal/pw"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing. It also
// plays the role of the protected location: MockInvoker writes into it
// when a privileged copy succeeds.
type MockFilesystemManager struct {
	mu      sync.RWMutex
	files   map[string]*MockFile
	links   map[string]string
	readErr error
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
		links: make(map[string]string),
	}
}

// AddFile adds or replaces a file in the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &MockFile{
		Content:     append([]byte(nil), content...),
		Permissions: 0644,
		ModTime:     time.Now(),
	}
}

// AddSymlink makes link resolve to target.
func (m *MockFilesystemManager) AddSymlink(link, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[link] = target
}

// RemoveFile deletes a file from the mock filesystem.
func (m *MockFilesystemManager) RemoveFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// FailReads makes ReadFile return err (nil restores normal behavior).
func (m *MockFilesystemManager) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Content returns the current content of path and whether it exists.
func (m *MockFilesystemManager) Content(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), file.Content...), true
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*pw.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if target, ok := m.links[absPath]; ok {
		absPath = target
	}
	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}

	info := &mockFileInfo{
		name:     filepath.Base(absPath),
		size:     int64(len(file.Content)),
		mode:     file.Permissions,
		modTime:  file.ModTime,
		mockFile: file,
	}
	return pw.NewPath(absPath, info), nil
}

func (m *MockFilesystemManager) ReadFile(path *pw.Path) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.readErr != nil {
		return nil, m.readErr
	}
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	return append([]byte(nil), file.Content...), nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	mockFile *MockFile
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ pw.FilesystemManager = (*MockFilesystemManager)(nil)
