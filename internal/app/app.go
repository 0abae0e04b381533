package app

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"pwrite-go/internal/backup"
	"pwrite-go/internal/classify"
	"pwrite-go/internal/config"
	"pwrite-go/internal/database"
	"pwrite-go/internal/database/migrations"
	"pwrite-go/internal/encryption"
	"pwrite-go/internal/fs"
	"pwrite-go/internal/lock"
	"pwrite-go/internal/model"
	"pwrite-go/internal/privilege"
	"pwrite-go/internal/pw"
	"pwrite-go/internal/staging"
)

// Options carries the caller-supplied pieces NewPWApp cannot build from config.
type Options struct {
	// Verbose also writes the log to stderr, including debug records.
	Verbose bool
	// Notifier receives progress messages. Nil discards them.
	Notifier pw.Notifier
	// Passphrase unlocks sealed backups on restore.
	Passphrase backup.PassphraseFunc
	// Runner overrides how the privilege helper is executed.
	Runner privilege.CommandRunner
}

// PWApp is the application layer between the CLI and PWService.
// It constructs all dependencies from config and manages the lifetime of
// the log file and history database.
type PWApp struct {
	cfg     *config.Config
	fsmgr   pw.FilesystemManager
	backups pw.BackupStore
	staging staging.StagingArea
	invoker *privilege.ExecInvoker
	db      pw.Database
	slot    *lock.FlockSlot
	service *pw.PWService
	logFile *os.File
}

// Status summarizes the configured target for `pwrite status`.
type Status struct {
	Target        string
	Facility      string
	Command       []string
	BackupType    string
	BackupAt      string
	Encrypted     bool
	HasBackup     bool
	State         pw.State
	SchemaVersion uint
	SchemaProblem string // empty when the history schema matches this binary
	Last          *model.Operation
}

// NewPWApp creates a fully wired PWApp from the given config.
// The caller must call Close when done.
func NewPWApp(cfg *config.Config, opts Options) (*PWApp, error) {
	session := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, session, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	a := &PWApp{cfg: cfg, fsmgr: fs.NewOSFilesystemManager(), logFile: logFile}
	if err := a.wire(opts, log); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *PWApp) wire(opts Options, log pw.Logger) error {
	cfg := a.cfg

	sealer, err := encryption.NewSealerFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating sealer: %w", err)
	}
	a.backups, err = backup.NewBackupStoreFromConfig(cfg.Backup, sealer, opts.Passphrase)
	if err != nil {
		return fmt.Errorf("creating backup store: %w", err)
	}

	a.staging, err = staging.NewStagingAreaFromConfig(cfg.Staging, log)
	if err != nil {
		return fmt.Errorf("creating staging area: %w", err)
	}

	a.invoker, err = privilege.NewInvokerFromConfig(cfg.Privilege, opts.Runner)
	if err != nil {
		return fmt.Errorf("creating privilege invoker: %w", err)
	}

	table, err := classify.NewTableFromConfig(cfg.Privilege, cfg.Target.Path)
	if err != nil {
		return fmt.Errorf("creating outcome classifier: %w", err)
	}

	if cfg.Database.Type != "none" {
		a.db, err = database.NewDatabaseFromConfig(cfg.Database)
		if err != nil {
			return fmt.Errorf("creating database: %w", err)
		}
	}

	a.slot, err = lock.NewFlockSlot(filepath.Join(cfg.BaseDir, lock.FileName), log)
	if err != nil {
		return fmt.Errorf("creating lock: %w", err)
	}

	a.service = pw.NewPWService(cfg.Target.Path, a.fsmgr, a.backups, a.staging, a.invoker, table, a.db,
		log, pw.RealClock{}, pw.UUIDGenerator{})
	a.service.SetSlot(a.slot)
	a.service.SetNotifier(opts.Notifier)
	return nil
}

// Apply appends the configured marker to the protected file.
func (a *PWApp) Apply() pw.Outcome {
	marker := a.cfg.Target.Marker
	if marker == "" {
		marker = pw.DefaultMarker
	}
	return a.service.Apply(pw.AppendMarker(marker))
}

// Restore reinstalls the backed-up content.
func (a *PWApp) Restore() pw.Outcome {
	outcome := a.service.Restore()
	if outcome.OK() {
		outcome.Message = fmt.Sprintf("Successfully restored %s from backup", a.cfg.Target.Path)
	}
	return outcome
}

// HasBackup reports whether a backup is available to restore.
func (a *PWApp) HasBackup() bool {
	return a.service.HasBackup()
}

// GetHistory returns the most recent operations, newest first.
func (a *PWApp) GetHistory(limit int) ([]*model.Operation, error) {
	return a.service.GetHistory(limit)
}

// Status collects what `pwrite status` shows.
func (a *PWApp) Status() (*Status, error) {
	s := &Status{
		Target:     a.cfg.Target.Path,
		Facility:   a.invoker.Facility(),
		Command:    a.invoker.CommandLine("<staged>", a.cfg.Target.Path),
		BackupType: a.cfg.Backup.Type,
		BackupAt:   backupLocation(a.cfg.Backup),
		Encrypted:  a.cfg.Backup.Encrypted,
		HasBackup:  a.service.HasBackup(),
		State:      a.service.State(),
	}

	if sqlDB, ok := a.db.(*database.SQLiteDatabase); ok {
		version, _, err := migrations.CurrentVersion(sqlDB.DB())
		if err != nil {
			return nil, fmt.Errorf("reading schema version: %w", err)
		}
		s.SchemaVersion = version
		if err := migrations.CheckDBMigrationStatus(sqlDB.DB()); err != nil {
			s.SchemaProblem = err.Error()
		}
	}

	ops, err := a.service.GetHistory(1)
	if err != nil {
		return nil, err
	}
	if len(ops) > 0 {
		s.Last = ops[0]
	}
	return s, nil
}

// Close closes the history database and the log file.
func (a *PWApp) Close() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}

// SetupKeys generates the age key pair used for sealed backups.
func SetupKeys(cfg *config.Config, passphrase string) error {
	sealer, err := encryption.NewSealerFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating sealer: %w", err)
	}
	if sealer.IsConfigured() {
		return fmt.Errorf("keys already exist at %s", cfg.Encryption.PrivateKeyPath)
	}
	if err := sealer.Setup(passphrase); err != nil {
		return fmt.Errorf("generating keys: %w", err)
	}
	return nil
}

// backupLocation describes where the snapshot lives.
func backupLocation(cfg config.BackupConfig) string {
	name := backup.FileName(cfg.Name)
	switch cfg.Type {
	case "filesystem":
		return filepath.Join(cfg.Dir, name)
	case "s3":
		return fmt.Sprintf("s3://%s/%s", cfg.S3Bucket, path.Join(cfg.S3Prefix, name))
	default:
		return "(in memory)"
	}
}
