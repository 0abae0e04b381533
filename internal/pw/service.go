package pw

import (
	"errors"
	"fmt"

	"pwrite-go/internal/model"
)

// PWService is the orchestration layer that coordinates backup, staging,
// the privilege helper and outcome classification for one protected file.
// At most one Apply or Restore runs at a time; a second caller gets
// AlreadyInProgress immediately instead of waiting.
type PWService struct {
	target     string
	fsmgr      FilesystemManager
	backups    BackupStore
	staging    StagingArea
	invoker    PrivilegeInvoker
	classifier Classifier
	database   Database
	logger     Logger
	clock      Clock
	idgen      IDGenerator

	local    *MemorySlot
	slot     Slot
	notifier Notifier
}

// NewPWService creates a new PWService for the protected file at target.
// database may be nil, in which case no history is recorded.
func NewPWService(target string, fsmgr FilesystemManager, backups BackupStore, staging StagingArea, invoker PrivilegeInvoker, classifier Classifier, database Database, logger Logger, clock Clock, idgen IDGenerator) *PWService {
	return &PWService{
		target:     target,
		fsmgr:      fsmgr,
		backups:    backups,
		staging:    staging,
		invoker:    invoker,
		classifier: classifier,
		database:   database,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
		local:      NewMemorySlot(),
		notifier:   NopNotifier{},
	}
}

// SetSlot adds an extra guard (e.g. a cross-process file lock) that must
// be acquired after the in-process one.
func (s *PWService) SetSlot(slot Slot) {
	s.slot = slot
}

// SetNotifier sets the receiver of progress messages.
func (s *PWService) SetNotifier(n Notifier) {
	if n == nil {
		n = NopNotifier{}
	}
	s.notifier = n
}

// Target returns the configured protected file path.
func (s *PWService) Target() string {
	return s.target
}

// State reports whether an operation is currently running in this process.
func (s *PWService) State() State {
	if s.local.Held() {
		return InProgress
	}
	return Idle
}

// HasBackup reports whether Restore has something to restore.
func (s *PWService) HasBackup() bool {
	return s.backups.Exists()
}

// Apply backs up the protected file, computes new content with transform
// and installs it through the privilege helper.
//
// A failed backup does not stop the write: the user asked for the change
// and may still want it. The failure is logged and reported as progress.
func (s *PWService) Apply(transform Transform) Outcome {
	release, ok := s.acquire()
	if !ok {
		return s.busy("apply")
	}
	defer release()

	op := s.beginOperation("apply")
	outcome := s.apply(transform, op)
	s.finishOperation(op, outcome)
	return outcome
}

func (s *PWService) apply(transform Transform, op *model.Operation) Outcome {
	s.notifier.Notify(fmt.Sprintf("Reading %s...", s.target))

	path, err := s.fsmgr.Resolve(s.target)
	if err != nil {
		return s.readError(err)
	}
	current, err := s.fsmgr.ReadFile(path)
	if err != nil {
		return s.readError(err)
	}
	op.Target = path.String()

	s.notifier.Notify("Creating backup...")
	if err := s.backups.Save(current); err != nil {
		s.logger.Warn("backup failed, continuing with write", "target", path.String(), "error", err)
		s.notifier.Notify("Backup failed, continuing without a fresh backup")
	} else {
		op.BackupSaved = true
		s.logger.Info("backup created", "target", path.String(), "size", len(current))
	}

	return s.install(path.String(), transform(current))
}

// Restore reinstalls the backed-up content. It never writes the backup.
func (s *PWService) Restore() Outcome {
	release, ok := s.acquire()
	if !ok {
		return s.busy("restore")
	}
	defer release()

	op := s.beginOperation("restore")
	outcome := s.restore(op)
	s.finishOperation(op, outcome)
	return outcome
}

func (s *PWService) restore(op *model.Operation) Outcome {
	s.notifier.Notify("Reading backup...")

	snapshot, err := s.backups.Load()
	if errors.Is(err, ErrBackupNotFound) {
		s.logger.Warn("restore requested without backup", "target", s.target)
		return Outcome{Kind: NoBackupAvailable, Message: "No backup file found", Err: err}
	}
	if err != nil {
		s.logger.Error("reading backup failed", "error", err)
		return Outcome{Kind: OtherFailure, Message: "Failed to read backup file", Err: err}
	}

	// The target may have been removed; the helper can still recreate it.
	dst := s.target
	if path, err := s.fsmgr.Resolve(s.target); err == nil {
		dst = path.String()
	} else {
		s.logger.Warn("target not resolvable, restoring to configured path", "target", s.target, "error", err)
	}
	op.Target = dst

	outcome := s.install(dst, snapshot.Content)
	if outcome.OK() {
		s.logger.Info("restored from backup", "target", dst, "backup", snapshot.Name)
	}
	return outcome
}

// install stages content and hands it to the privilege helper.
func (s *PWService) install(dst string, content []byte) Outcome {
	s.notifier.Notify("Waiting for authentication...")

	var result *RawResult
	err := s.staging.WithStagedContent(content, func(staged string) error {
		r, err := s.invoker.Copy(staged, dst)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	switch {
	case result != nil:
		// The helper ran; its result decides the outcome.
		if err != nil {
			s.logger.Warn("staging cleanup reported an error after the copy", "error", err)
		}
	case errors.Is(err, ErrLaunch):
		s.logger.Error("privilege helper could not be started", "error", err)
		return Outcome{Kind: OtherFailure, Message: "Could not start the privilege helper", Err: err}
	case err != nil:
		s.logger.Error("staging new content failed", "error", err)
		return Outcome{Kind: OtherFailure, Message: fmt.Sprintf("Failed to write to %s", dst), Err: err}
	}

	outcome := s.classifier.Classify(result)
	switch outcome.Kind {
	case Success:
		s.logger.Info("protected file updated", "target", dst)
	case AuthFailed:
		s.logger.Warn("authentication failed", "target", dst, "exit_code", result.ExitCode)
	case UserCancelled:
		s.logger.Info("operation cancelled by user", "target", dst)
	default:
		s.logger.Error("privileged copy failed", "target", dst, "exit_code", result.ExitCode, "output", result.Output)
	}
	return outcome
}

// acquire takes the in-process slot and, if configured, the extra slot.
func (s *PWService) acquire() (release func(), ok bool) {
	if !s.local.TryAcquire() {
		return nil, false
	}
	if s.slot != nil && !s.slot.TryAcquire() {
		s.local.Release()
		return nil, false
	}
	return func() {
		if s.slot != nil {
			s.slot.Release()
		}
		s.local.Release()
	}, true
}

func (s *PWService) busy(operation string) Outcome {
	s.logger.Warn("operation rejected, another is in progress", "operation", operation)
	return Outcome{
		Kind:    AlreadyInProgress,
		Message: "Another operation is already in progress",
		Err:     ErrAlreadyInProgress,
	}
}

func (s *PWService) readError(err error) Outcome {
	s.logger.Error("reading protected file failed", "target", s.target, "error", err)
	return Outcome{
		Kind:    ReadError,
		Message: fmt.Sprintf("Failed to read %s", s.target),
		Err:     fmt.Errorf("%w: %w", ErrRead, err),
	}
}

func (s *PWService) beginOperation(operation string) *model.Operation {
	op := &model.Operation{
		OpID:      s.idgen.New(),
		Operation: operation,
		Target:    s.target,
		StartedAt: s.clock.Now(),
	}
	s.logger.Info("operation started", "operation", operation, "op_id", op.OpID, "target", s.target)
	return op
}

// finishOperation records the outcome. History is best-effort and never
// changes what the caller sees.
func (s *PWService) finishOperation(op *model.Operation, outcome Outcome) {
	op.Outcome = outcome.Kind.String()
	op.Message = outcome.Message
	op.FinishedAt = s.clock.Now()

	s.logger.Info("operation finished", "operation", op.Operation, "op_id", op.OpID, "outcome", op.Outcome)

	if s.database == nil {
		return
	}
	if err := s.database.CreateOperation(op); err != nil {
		s.logger.Warn("recording operation history failed", "op_id", op.OpID, "error", err)
	}
}

// GetHistory returns the most recent operations, newest first.
func (s *PWService) GetHistory(limit int) ([]*model.Operation, error) {
	if s.database == nil {
		return nil, nil
	}
	ops, err := s.database.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}
