package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogFileName is the name of the log file inside log_dir.
const LogFileName = "pwrite.log"

// pwHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<session>\t<message>\t<key=value ...>
//
// Values containing whitespace are quoted so helper output, which often
// spans lines, stays on one log line.
type pwHandler struct {
	w       io.Writer
	mu      *sync.Mutex
	level   slog.Level
	session string
	attrs   []slog.Attr
}

func newPWHandler(w io.Writer, session string, level slog.Level) *pwHandler {
	return &pwHandler{w: w, mu: &sync.Mutex{}, level: level, session: session}
}

func (h *pwHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *pwHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s",
		r.Time.UTC().Format("2006-01-02T15:04:05.000Z"), r.Level.String(), h.session, r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	v := a.Value.Resolve().String()
	if strings.ContainsAny(v, " \t\r\n\"") || v == "" {
		v = fmt.Sprintf("%q", v)
	}
	fmt.Fprintf(b, "\t%s=%s", a.Key, v)
}

func (h *pwHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &pwHandler{
		w:       h.w,
		mu:      h.mu,
		level:   h.level,
		session: h.session,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *pwHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that appends to logDir/pwrite.log,
// and also writes to stderr when verbose is set. Debug records are only
// emitted in verbose mode. It returns the open log file for cleanup.
func newLogger(logDir, session string, verbose bool) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, LogFileName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	var w io.Writer = f
	level := slog.LevelInfo
	if verbose {
		w = io.MultiWriter(f, os.Stderr)
		level = slog.LevelDebug
	}
	return slog.New(newPWHandler(w, session, level)), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the pw.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
