// Package log builds the process logger: slog with text or JSON output,
// credential redaction and optional size-based file rotation.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sembako/internal/config"
)

// New returns a logger for cfg. When cfg.File is set output goes to a
// rotating file and the returned closer must be closed on shutdown;
// otherwise output goes to fallback and the closer is a no-op.
func New(cfg config.LoggingConfig, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		out              = fallback
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		w, err := NewRotatingWriter(RotationConfig{File: cfg.File, MaxSizeMB: cfg.MaxSizeMB, MaxFiles: cfg.MaxFiles})
		if err != nil {
			return nil, nil, err
		}
		out, closer = w, w
	}
	if out == nil {
		out = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(NewRedactingHandler(handler)), closer, nil
}

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
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
