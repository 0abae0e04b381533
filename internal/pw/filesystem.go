package pw

// FilesystemManager provides read access to the protected file.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves symlinks and validates the target is a regular file.
	Resolve(rawPath string) (*Path, error)

	// ReadFile returns the full content of the file.
	ReadFile(path *Path) ([]byte, error)
}
