package testutil

import (
	"pwrite-go/internal/pw"
	"pwrite-go/internal/staging"
)

const (
	// DefaultStagingMaxSize is the default max size for test staging areas (1MB).
	DefaultStagingMaxSize = staging.DefaultMaxSize
)

// NewTestStagingArea creates a new in-memory staging area for testing.
func NewTestStagingArea() staging.StagingArea {
	return staging.NewMemoryStagingArea(DefaultStagingMaxSize, pw.NewNopLogger())
}

// NewTestStagingAreaWithSize creates a new in-memory staging area with a custom max size.
func NewTestStagingAreaWithSize(maxSize int64) staging.StagingArea {
	return staging.NewMemoryStagingArea(maxSize, pw.NewNopLogger())
}
