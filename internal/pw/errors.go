package pw

import (
	"errors"
	"fmt"
)

var (
	// ErrBackupNotFound is returned by BackupStore.Load when the slot is empty.
	ErrBackupNotFound = errors.New("no backup found")

	// ErrBackupIO wraps failures reading or writing the backup slot.
	ErrBackupIO = errors.New("backup store i/o failed")

	// ErrStagingIO wraps failures writing staged content.
	ErrStagingIO = errors.New("staging failed")

	// ErrLaunch means the privilege helper could not be started at all.
	ErrLaunch = errors.New("privilege helper could not be started")

	// ErrRead means the protected file could not be read.
	ErrRead = errors.New("protected file unreadable")

	// ErrAlreadyInProgress is reported when the workflow slot is taken.
	ErrAlreadyInProgress = errors.New("operation already in progress")
)

// LaunchError is returned by PrivilegeInvoker.Copy when the helper process
// could not be started (binary missing, not executable, ...).
type LaunchError struct {
	Facility string
	Err      error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Facility, e.Err)
}

func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunch, e.Err}
}
