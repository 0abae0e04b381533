package pw

import "pwrite-go/internal/model"

// Database records the outcome of each workflow operation.
// It is an audit log only; it never stores file content.
type Database interface {
	// CreateOperation inserts op and sets op.ID.
	CreateOperation(op *model.Operation) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	// Close closes the database connection.
	Close() error
}
