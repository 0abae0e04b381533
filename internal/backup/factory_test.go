package backup

import (
	"testing"

	"pwrite-go/internal/config"
	"pwrite-go/internal/encryption"
	"pwrite-go/internal/pw"
)

func TestNewBackupStoreFromConfig(t *testing.T) {
	passphrase := func() (string, error) { return "p", nil }
	unconfigured := &encryption.TestSealer{}

	tests := []struct {
		name       string
		cfg        config.BackupConfig
		sealer     pw.Sealer
		passphrase PassphraseFunc
		wantErr    bool
		wantSealed bool
	}{
		{name: "memory", cfg: config.BackupConfig{Type: "memory", Name: "hosts"}},
		{name: "filesystem", cfg: config.BackupConfig{Type: "filesystem", Name: "hosts", Dir: t.TempDir()}},
		{name: "filesystem without dir", cfg: config.BackupConfig{Type: "filesystem", Name: "hosts"}, wantErr: true},
		{name: "s3 without bucket", cfg: config.BackupConfig{Type: "s3", Name: "hosts"}, wantErr: true},
		{name: "unknown type", cfg: config.BackupConfig{Type: "floppy", Name: "hosts"}, wantErr: true},
		{
			name:       "encrypted",
			cfg:        config.BackupConfig{Type: "memory", Name: "hosts", Encrypted: true},
			sealer:     encryption.NewTestSealer("p"),
			passphrase: passphrase,
			wantSealed: true,
		},
		{
			name:    "encrypted without sealer",
			cfg:     config.BackupConfig{Type: "memory", Name: "hosts", Encrypted: true},
			wantErr: true,
		},
		{
			name:       "encrypted without keys",
			cfg:        config.BackupConfig{Type: "memory", Name: "hosts", Encrypted: true},
			sealer:     unconfigured,
			passphrase: passphrase,
			wantErr:    true,
		},
		{
			name:    "encrypted without passphrase source",
			cfg:     config.BackupConfig{Type: "memory", Name: "hosts", Encrypted: true},
			sealer:  encryption.NewTestSealer("p"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBackupStoreFromConfig(tt.cfg, tt.sealer, tt.passphrase)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewBackupStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			_, sealed := got.(*SealedBackupStore)
			if sealed != tt.wantSealed {
				t.Errorf("sealed = %v, want %v", sealed, tt.wantSealed)
			}
		})
	}
}
