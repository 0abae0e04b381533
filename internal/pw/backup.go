package pw

// Snapshot is the single retained copy of the protected file's content.
type Snapshot struct {
	// Name is the fixed logical key of the backup slot (e.g. "hosts").
	Name    string
	Content []byte
}

// BackupStore persists exactly one snapshot. Every Save overwrites the
// previous one; there are no generations.
type BackupStore interface {
	// Save replaces the snapshot with content. Errors wrap ErrBackupIO.
	// A failed Save must not leave a partially written snapshot behind.
	Save(content []byte) error

	// Load returns the current snapshot, or an error wrapping
	// ErrBackupNotFound if nothing has been saved yet.
	Load() (*Snapshot, error)

	// Exists reports whether a snapshot is available. It never fails;
	// backends treat lookup errors as "no backup".
	Exists() bool
}
