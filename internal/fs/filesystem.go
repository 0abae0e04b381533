package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"pwrite-go/internal/pw"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It only ever reads; writes to protected files go through the privilege helper.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*pw.Path, error) {
	// Convert to absolute path
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// Follow symlinks so the helper overwrites the real file, not the link
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("resolving symlinks: %w", err)
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for file types we don't support
	mode := info.Mode()
	if mode.IsDir() {
		return nil, fmt.Errorf("directories not supported: %s", realPath)
	}
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", realPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", realPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", realPath)
	}

	return pw.NewPath(realPath, info), nil
}

// ReadFile reads the whole file.
func (m *OSFilesystemManager) ReadFile(path *pw.Path) ([]byte, error) {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path.String(), err)
	}
	return data, nil
}

// Compile-time check that OSFilesystemManager implements pw.FilesystemManager interface
var _ pw.FilesystemManager = (*OSFilesystemManager)(nil)
