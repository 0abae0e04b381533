package backup

import (
	"fmt"

	"pwrite-go/internal/pw"
)

// PassphraseFunc returns the passphrase needed to open a sealed snapshot.
// It is only called by Load.
type PassphraseFunc func() (string, error)

// SealedBackupStore seals snapshots before handing them to an inner
// store and unseals them on Load. Sealing needs only the public key, so
// Apply never prompts; Restore asks for the passphrase.
type SealedBackupStore struct {
	inner      pw.BackupStore
	sealer     pw.Sealer
	passphrase PassphraseFunc
}

// NewSealedBackupStore wraps inner.
func NewSealedBackupStore(inner pw.BackupStore, sealer pw.Sealer, passphrase PassphraseFunc) *SealedBackupStore {
	return &SealedBackupStore{inner: inner, sealer: sealer, passphrase: passphrase}
}

func (s *SealedBackupStore) Save(content []byte) error {
	sealed, err := s.sealer.Seal(content)
	if err != nil {
		return fmt.Errorf("%w: sealing snapshot: %w", pw.ErrBackupIO, err)
	}
	return s.inner.Save(sealed)
}

func (s *SealedBackupStore) Load() (*pw.Snapshot, error) {
	snap, err := s.inner.Load()
	if err != nil {
		return nil, err
	}

	passphrase, err := s.passphrase()
	if err != nil {
		return nil, fmt.Errorf("%w: reading passphrase: %w", pw.ErrBackupIO, err)
	}

	plain, err := s.sealer.Unseal(snap.Content, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: unsealing snapshot: %w", pw.ErrBackupIO, err)
	}
	return &pw.Snapshot{Name: snap.Name, Content: plain}, nil
}

func (s *SealedBackupStore) Exists() bool {
	return s.inner.Exists()
}

var _ pw.BackupStore = (*SealedBackupStore)(nil)
