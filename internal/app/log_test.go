package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPWHandler_Handle(t *testing.T) {
	ts := time.Date(2026, 6, 15, 14, 30, 45, 250_000_000, time.UTC)

	tests := []struct {
		name    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			level:   slog.LevelInfo,
			message: "protected file updated",
			want:    "2026-06-15T14:30:45.250Z\tINFO\ts-1\tprotected file updated\n",
		},
		{
			name:    "with record attrs",
			level:   slog.LevelWarn,
			message: "authentication failed",
			attrs:   []slog.Attr{slog.String("target", "/etc/hosts"), slog.Int("exit_code", 1)},
			want:    "2026-06-15T14:30:45.250Z\tWARN\ts-1\tauthentication failed\ttarget=/etc/hosts\texit_code=1\n",
		},
		{
			name:    "multi-line value is quoted",
			level:   slog.LevelError,
			message: "privileged copy failed",
			attrs:   []slog.Attr{slog.String("output", "cp: denied\n")},
			want:    "2026-06-15T14:30:45.250Z\tERROR\ts-1\tprivileged copy failed\toutput=\"cp: denied\\n\"\n",
		},
		{
			name:    "empty value is quoted",
			level:   slog.LevelInfo,
			message: "m",
			attrs:   []slog.Attr{slog.String("output", "")},
			want:    "2026-06-15T14:30:45.250Z\tINFO\ts-1\tm\toutput=\"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newPWHandler(&buf, "s-1", slog.LevelDebug)

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestPWHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newPWHandler(&buf, "s-1", slog.LevelInfo)
	h.attrs = []slog.Attr{slog.String("a", "1")}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "backup")}).(*pwHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "saved", 0)
	r.AddAttrs(slog.String("key", "abc"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "\ta=1\tcomponent=backup\tkey=abc\n") {
		t.Errorf("attrs not written in order, got: %q", got)
	}
}

func TestPWHandler_Enabled(t *testing.T) {
	h := newPWHandler(nil, "", slog.LevelInfo)

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(DEBUG) = true at INFO level")
	}
	for _, level := range []slog.Level{slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "session-1", false)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("visible", "target", "/etc/hosts")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "hidden") {
		t.Errorf("debug record written without verbose: %q", got)
	}
	if !strings.Contains(got, "\tINFO\tsession-1\tvisible\ttarget=/etc/hosts\n") {
		t.Errorf("log file = %q", got)
	}
}
