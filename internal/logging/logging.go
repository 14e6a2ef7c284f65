// Package logging configures the process-wide slog logger.
//
// Interactive runs write JSON to a log file because the terminal belongs to
// the UI; other commands write text to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options selects where and how much to log.
type Options struct {
	Module  string
	Version string
	Level   string
	// File, when set, receives JSON logs instead of Stderr.
	File   string
	Stderr io.Writer
}

// ParseLevel maps debug, info, warn/warning and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New builds a logger tagged with module and version.
func New(w io.Writer, level slog.Level, json bool, module, version string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("module", module, "version", version)
}

// Setup installs the default logger. The returned close func releases the
// log file, if any.
func Setup(o Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, nil, err
	}
	if o.File == "" {
		w := o.Stderr
		if w == nil {
			w = os.Stderr
		}
		l := New(w, level, false, o.Module, o.Version)
		slog.SetDefault(l)
		return l, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f, level, true, o.Module, o.Version)
	slog.SetDefault(l)
	return l, f.Close, nil
}

// DefaultFile is where interactive runs log when no file is configured.
func DefaultFile(module string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, module, module+".log")
}
