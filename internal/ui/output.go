package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"pwrite-go/internal/pw"
)

// UI writes human-facing output for the CLI. Progress messages may arrive
// from any goroutine, so all writes are serialized.
type UI struct {
	mu             sync.Mutex
	output         io.Writer
	nonInteractive bool

	colorInfo    *color.Color
	colorSuccess *color.Color
	colorWarning *color.Color
	colorError   *color.Color
	colorFaint   *color.Color
}

// New creates a UI writing to stderr.
func New() *UI {
	return &UI{
		output:       os.Stderr,
		colorInfo:    color.New(color.FgBlue),
		colorSuccess: color.New(color.FgGreen),
		colorWarning: color.New(color.FgYellow),
		colorError:   color.New(color.FgRed),
		colorFaint:   color.New(color.Faint),
	}
}

// NewWithWriter creates a UI with custom output writer (useful for testing)
func NewWithWriter(w io.Writer) *UI {
	u := New()
	u.output = w
	return u
}

// SetNonInteractive disables prompts; confirmations are then answered
// with their default.
func (u *UI) SetNonInteractive(enabled bool) {
	u.nonInteractive = enabled
}

// IsNonInteractive returns true if non-interactive mode is enabled
func (u *UI) IsNonInteractive() bool {
	return u.nonInteractive
}

func (u *UI) print(c *color.Color, format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	c.Fprintf(u.output, format, args...)
}

// Info prints an info message
func (u *UI) Info(msg string) {
	u.print(u.colorInfo, "%s\n", msg)
}

// Success prints a success message
func (u *UI) Success(msg string) {
	u.print(u.colorSuccess, "[✓] %s\n", msg)
}

// Warning prints a warning message
func (u *UI) Warning(msg string) {
	u.print(u.colorWarning, "[!] %s\n", msg)
}

// Error prints an error message
func (u *UI) Error(msg string) {
	u.print(u.colorError, "[✗] %s\n", msg)
}

// Notify prints a progress message. It implements pw.Notifier.
func (u *UI) Notify(status string) {
	u.print(u.colorFaint, "%s\n", status)
}

// Outcome prints the result of an apply or restore in the colour of its kind.
func (u *UI) Outcome(o pw.Outcome) {
	switch o.Kind {
	case pw.Success:
		u.Success(o.Message)
	case pw.UserCancelled, pw.AlreadyInProgress, pw.NoBackupAvailable:
		u.Warning(o.Message)
	default:
		u.Error(o.Message)
	}
	if o.Diagnostic != "" {
		u.print(u.colorFaint, "    %s\n", o.Diagnostic)
	}
}

// Printf prints plain formatted text.
func (u *UI) Printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.output, format, args...)
}

var _ pw.Notifier = (*UI)(nil)
