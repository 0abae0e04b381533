package encryption

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"pwrite-go/internal/config"
	"pwrite-go/internal/pw"
)

// AgeSealer implements pw.Sealer with an X25519 key pair. The public key
// is stored in plaintext; the identity file is itself age-encrypted with
// the user's passphrase (scrypt).
type AgeSealer struct {
	publicKeyPath  string
	privateKeyPath string
}

var _ pw.Sealer = (*AgeSealer)(nil)

// NewAgeSealer creates a new AgeSealer from configuration.
func NewAgeSealer(cfg config.EncryptionConfig) *AgeSealer {
	return &AgeSealer{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates a key pair and writes both key files.
func (a *AgeSealer) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, p := range []string{a.publicKeyPath, a.privateKeyPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}

	if err := os.WriteFile(a.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	lockedKey, err := encrypt([]byte(identity.String()+"\n"), recipient)
	if err != nil {
		return fmt.Errorf("encrypting private key: %w", err)
	}
	if err := os.WriteFile(a.privateKeyPath, lockedKey, 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}

	return nil
}

// Seal encrypts plain to the stored public key.
func (a *AgeSealer) Seal(plain []byte) ([]byte, error) {
	pubData, err := os.ReadFile(a.publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	recipients, err := age.ParseRecipients(bytes.NewReader(pubData))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in public key file")
	}

	return encrypt(plain, recipients...)
}

// Unseal unlocks the private key with passphrase and decrypts sealed.
func (a *AgeSealer) Unseal(sealed []byte, passphrase string) ([]byte, error) {
	lockedKey, err := os.ReadFile(a.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key file: %w", err)
	}

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	keyData, err := decrypt(lockedKey, scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key (wrong passphrase?): %w", err)
	}

	identities, err := age.ParseIdentities(bytes.NewReader(keyData))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in private key")
	}

	plain, err := decrypt(sealed, identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting snapshot: %w", err)
	}
	return plain, nil
}

// IsConfigured returns true if both key files exist.
func (a *AgeSealer) IsConfigured() bool {
	if _, err := os.Stat(a.publicKeyPath); err != nil {
		return false
	}
	if _, err := os.Stat(a.privateKeyPath); err != nil {
		return false
	}
	return true
}

func encrypt(plain []byte, recipients ...age.Recipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plain); err != nil {
		return nil, fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

func decrypt(sealed []byte, identities ...age.Identity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(sealed), identities...)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
