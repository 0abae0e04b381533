package pw

// PrivilegeInvoker copies a file with elevated rights through an
// OS-provided helper (osascript, sudo, pkexec, ...).
type PrivilegeInvoker interface {
	// Copy blocks until the helper exits; the helper may show an
	// interactive credential prompt with no timeout. A non-zero exit is
	// reported through RawResult, not as an error. The only error is a
	// *LaunchError when the helper could not be started.
	Copy(src, dst string) (*RawResult, error)
}

// Classifier maps a helper result to an Outcome.
type Classifier interface {
	Classify(result *RawResult) Outcome
}
