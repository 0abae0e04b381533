package staging

import (
	"fmt"

	"pwrite-go/internal/config"
	"pwrite-go/internal/pw"
)

// DefaultMaxSize is the default maximum staged content size (1MB).
const DefaultMaxSize int64 = 1024 * 1024

// StagingArea is the staging implementation returned by the constructors.
// Besides pw.StagingArea it exposes Read and Pending for callers that
// need to observe staged content.
type StagingArea interface {
	pw.StagingArea
	Read(path string) ([]byte, error)
	Pending() int
}

// NewStagingAreaFromConfig creates a StagingArea implementation based on the config type.
func NewStagingAreaFromConfig(cfg config.StagingConfig, logger pw.Logger) (StagingArea, error) {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	switch cfg.Type {
	case "memory":
		return NewMemoryStagingArea(maxSize, logger), nil
	case "filesystem", "":
		return NewFileSystemStagingArea(cfg.Dir, maxSize, logger)
	default:
		return nil, fmt.Errorf("unknown staging area type: %s", cfg.Type)
	}
}

// NewMemoryStagingArea creates an in-memory staging area.
func NewMemoryStagingArea(maxSize int64, logger pw.Logger) StagingArea {
	return &stagingArea{store: newMemoryStore(), maxSize: maxSize, logger: logger}
}

// NewFileSystemStagingArea creates a staging area that writes temp files
// into dir, or the OS temp dir when dir is empty.
func NewFileSystemStagingArea(dir string, maxSize int64, logger pw.Logger) (StagingArea, error) {
	store, err := newFileSystemStore(dir)
	if err != nil {
		return nil, err
	}
	return &stagingArea{store: store, maxSize: maxSize, logger: logger}, nil
}
