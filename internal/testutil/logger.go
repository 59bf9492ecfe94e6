// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/dtroode/certledger/internal/logger"
)

// MakeNoopLogger returns a debug-level logger that discards its output, so
// tests still evaluate every log call.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithFormat(int(slog.LevelDebug), logger.FormatText, io.Discard)
}

// MakeBufferLogger returns an info-level JSON logger and the buffer it
// writes to.
func MakeBufferLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.NewWithFormat(int(slog.LevelInfo), logger.FormatJSON, &buf), &buf
}
