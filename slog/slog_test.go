package slog_test

import (
	"bytes"
	"log/slog"
)

// newLogger returns a text logger at debug level writing to buf.
func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
