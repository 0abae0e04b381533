package pw

// OutcomeKind is the closed set of terminal results reported to callers.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	AuthFailed
	UserCancelled
	OtherFailure
	NoBackupAvailable
	AlreadyInProgress
	ReadError
)

var outcomeNames = map[OutcomeKind]string{
	Success:           "success",
	AuthFailed:        "auth_failed",
	UserCancelled:     "user_cancelled",
	OtherFailure:      "other_failure",
	NoBackupAvailable: "no_backup_available",
	AlreadyInProgress: "already_in_progress",
	ReadError:         "read_error",
}

// String returns the snake_case name used in logs and the history table.
func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseOutcomeKind is the inverse of OutcomeKind.String.
func ParseOutcomeKind(s string) (OutcomeKind, bool) {
	for k, name := range outcomeNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Outcome is the result of one Apply or Restore call.
type Outcome struct {
	Kind OutcomeKind

	// Message is a short human-readable status for display.
	Message string

	// Diagnostic holds the helper's raw output for OtherFailure.
	Diagnostic string

	// Err is the underlying error when the outcome was caused by one.
	// It wraps one of the sentinels in errors.go so callers can use errors.Is.
	Err error
}

// OK reports whether the outcome is Success.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

// RawResult is what the privilege helper returned for one copy attempt.
type RawResult struct {
	ExitCode int
	Output   string // combined stdout and stderr
}
