package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pwrite-go/internal/database/migrations"
	"pwrite-go/internal/model"
	"pwrite-go/internal/pw"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// timeLayout is how timestamps are stored in TEXT columns.
const timeLayout = time.RFC3339Nano

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the database at path and applies pending migrations.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the schema is up to date.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// A second pwrite process may be recording history at the same time.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Path returns the file the database was opened from.
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// DB exposes the underlying connection, e.g. for migration status checks.
func (s *SQLiteDatabase) DB() *sql.DB {
	return s.db
}

// CreateOperation inserts op and sets op.ID.
func (s *SQLiteDatabase) CreateOperation(op *model.Operation) error {
	res, err := s.db.ExecContext(context.Background(), `
		INSERT INTO operations (op_id, operation, target, outcome, message, backup_saved, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.OpID, op.Operation, op.Target, op.Outcome, op.Message, op.BackupSaved,
		op.StartedAt.UTC().Format(timeLayout), op.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting operation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading operation id: %w", err)
	}
	op.ID = id
	return nil
}

// ListOperations returns up to limit operations, newest first.
// A limit of zero or less returns all of them.
func (s *SQLiteDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, op_id, operation, target, outcome, message, backup_saved, started_at, finished_at
		FROM operations
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	return ops, nil
}

func scanOperation(rows *sql.Rows) (*model.Operation, error) {
	var (
		op                  model.Operation
		startedAt, finished string
	)
	err := rows.Scan(&op.ID, &op.OpID, &op.Operation, &op.Target, &op.Outcome, &op.Message,
		&op.BackupSaved, &startedAt, &finished)
	if err != nil {
		return nil, fmt.Errorf("scanning operation: %w", err)
	}

	if op.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at of %s: %w", op.OpID, err)
	}
	if op.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at of %s: %w", op.OpID, err)
	}
	return &op, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase implements pw.Database interface
var _ pw.Database = (*SQLiteDatabase)(nil)
