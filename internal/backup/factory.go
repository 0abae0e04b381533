package backup

import (
	"context"
	"fmt"

	"pwrite-go/internal/config"
	"pwrite-go/internal/pw"
)

// NewBackupStoreFromConfig creates a BackupStore implementation based on the backup config type.
// When cfg.Encrypted is set the store is wrapped with sealer; passphrase is
// consulted only when a sealed snapshot is loaded.
func NewBackupStoreFromConfig(cfg config.BackupConfig, sealer pw.Sealer, passphrase PassphraseFunc) (pw.BackupStore, error) {
	var store pw.BackupStore

	switch cfg.Type {
	case "memory":
		store = NewMemoryBackupStore(cfg.Name)
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem backup store requires dir to be set")
		}
		fsStore, err := NewFileSystemBackupStore(cfg.Name, cfg.Dir)
		if err != nil {
			return nil, err
		}
		store = fsStore
	case "s3":
		s3Store, err := NewS3BackupStore(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		store = s3Store
	default:
		return nil, fmt.Errorf("unknown backup store type: %s", cfg.Type)
	}

	if !cfg.Encrypted {
		return store, nil
	}
	if sealer == nil {
		return nil, fmt.Errorf("encrypted backups require an encryptor")
	}
	if !sealer.IsConfigured() {
		return nil, fmt.Errorf("encrypted backups require keys: run `pwrite config keys`")
	}
	if passphrase == nil {
		return nil, fmt.Errorf("encrypted backups require a passphrase source")
	}
	return NewSealedBackupStore(store, sealer, passphrase), nil
}
