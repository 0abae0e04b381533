package staging

// stagingStore abstracts where staged content lives.
// Concurrency is managed by the caller (stagingArea.mu), so stores
// do not need to be safe for concurrent use.
type stagingStore interface {
	// Write stores content under a fresh path and returns it.
	Write(content []byte) (path string, err error)

	// Remove deletes the content at path. Removing a missing path is not an error.
	Remove(path string) error

	// Read returns the content at path.
	Read(path string) ([]byte, error)

	// Len returns the number of staged artifacts currently present.
	Len() int
}
