package pw

// StagingArea writes candidate content somewhere an unprivileged process
// can write and the privilege helper can read.
type StagingArea interface {
	// WithStagedContent writes content to a fresh temporary path and calls
	// fn with it. The path is removed before WithStagedContent returns,
	// whether fn succeeds, fails or panics. If the write itself fails the
	// error wraps ErrStagingIO and fn is never called.
	WithStagedContent(content []byte, fn func(path string) error) error
}
