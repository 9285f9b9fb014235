package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// newFileLogger writes structured logs to path; the terminal belongs to
// the UI. When the file cannot be opened logs are discarded.
func newFileLogger(path string, level slog.Level) (*slog.Logger, io.Closer) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("component", "users-console"), f
}
