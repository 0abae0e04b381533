package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"

	"pwrite-go/internal/pw"
)

func newTestUI(t *testing.T) (*UI, *bytes.Buffer) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var buf bytes.Buffer
	return NewWithWriter(&buf), &buf
}

func TestUI_Outcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome pw.Outcome
		want    string
	}{
		{
			name:    "success",
			outcome: pw.Outcome{Kind: pw.Success, Message: "Successfully updated /etc/hosts"},
			want:    "[✓] Successfully updated /etc/hosts\n",
		},
		{
			name:    "cancelled is a warning",
			outcome: pw.Outcome{Kind: pw.UserCancelled, Message: "Operation cancelled by user"},
			want:    "[!] Operation cancelled by user\n",
		},
		{
			name:    "auth failure is an error",
			outcome: pw.Outcome{Kind: pw.AuthFailed, Message: "Authentication failed. Please try again with correct password."},
			want:    "[✗] Authentication failed. Please try again with correct password.\n",
		},
		{
			name:    "diagnostic is indented",
			outcome: pw.Outcome{Kind: pw.OtherFailure, Message: "Failed to update /etc/hosts", Diagnostic: "cp: read-only"},
			want:    "[✗] Failed to update /etc/hosts\n    cp: read-only\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, buf := newTestUI(t)
			u.Outcome(tt.outcome)
			if buf.String() != tt.want {
				t.Errorf("Outcome() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestUI_NotifyConcurrent(t *testing.T) {
	u, buf := newTestUI(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.Notify("Waiting for authentication...")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for _, l := range lines {
		if l != "Waiting for authentication..." {
			t.Errorf("interleaved line %q", l)
		}
	}
}

func TestUI_NonInteractivePrompts(t *testing.T) {
	u, _ := newTestUI(t)
	u.SetNonInteractive(true)

	got, err := u.PromptYesNo("Proceed?", true)
	if err != nil || !got {
		t.Errorf("PromptYesNo() = %v, %v, want default true", got, err)
	}
	if _, err := u.PromptPassword("Passphrase"); err != ErrNonInteractive {
		t.Errorf("PromptPassword() error = %v, want ErrNonInteractive", err)
	}
}
