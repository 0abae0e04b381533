package model

import "time"

// Operation is one finished Apply or Restore as stored in the history table.
type Operation struct {
	ID          int64  // auto-increment, set on insert
	OpID        string // UUID, also written to the log file
	Operation   string // "apply" or "restore"
	Target      string // absolute path of the protected file
	Outcome     string // pw.OutcomeKind.String()
	Message     string // display message returned to the caller
	BackupSaved bool   // apply only: whether the backup slot was refreshed
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration returns how long the operation took, including any time the
// user spent at the credential prompt.
func (o *Operation) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
