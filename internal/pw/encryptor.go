package pw

// Sealer protects backup snapshots at rest.
// Sealing uses the public key only, so no user interaction is needed
// during Apply. Unsealing needs the passphrase protecting the private key.
type Sealer interface {
	// Setup performs one-time key generation. Called by `pwrite config keys`.
	Setup(passphrase string) error

	// Seal encrypts plain with the public key.
	Seal(plain []byte) ([]byte, error)

	// Unseal unlocks the private key with passphrase and decrypts sealed.
	// Returns an error if the passphrase is incorrect.
	Unseal(sealed []byte, passphrase string) ([]byte, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}
