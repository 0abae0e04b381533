package encryption

import (
	"bytes"
	"fmt"

	"pwrite-go/internal/pw"
)

// testHeader marks content sealed by TestSealer.
var testHeader = []byte("PWSEAL\x00\x00")

// TestSealer is a deterministic, reversible stand-in for AgeSealer.
// It prepends a fixed header and checks the passphrase against the one
// given to Setup, so tests can exercise the wrong-passphrase path.
type TestSealer struct {
	passphrase string
	configured bool
}

var _ pw.Sealer = (*TestSealer)(nil)

// NewTestSealer creates a TestSealer that is already configured with passphrase.
func NewTestSealer(passphrase string) *TestSealer {
	return &TestSealer{passphrase: passphrase, configured: true}
}

func (s *TestSealer) Setup(passphrase string) error {
	s.passphrase = passphrase
	s.configured = true
	return nil
}

func (s *TestSealer) Seal(plain []byte) ([]byte, error) {
	out := make([]byte, 0, len(testHeader)+len(plain))
	out = append(out, testHeader...)
	return append(out, plain...), nil
}

func (s *TestSealer) Unseal(sealed []byte, passphrase string) ([]byte, error) {
	if passphrase != s.passphrase {
		return nil, fmt.Errorf("incorrect passphrase")
	}
	if !bytes.HasPrefix(sealed, testHeader) {
		return nil, fmt.Errorf("invalid test seal header")
	}
	return append([]byte(nil), sealed[len(testHeader):]...), nil
}

func (s *TestSealer) IsConfigured() bool {
	return s.configured
}
