// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

// Package log configures structured logging for resultpush using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/davetashner/resultpush/internal/redact"
)

// Setup configures the default slog logger based on verbosity flags.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Output is written to stderr using slog.TextHandler, with tokens redacted.
func Setup(verbose, quiet bool) {
	slog.SetDefault(New(os.Stderr, verbose, quiet))
}

// New builds the logger Setup installs, writing to w.
func New(w io.Writer, verbose, quiet bool) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(verbose, quiet),
	})
	return slog.New(redact.NewHandler(handler))
}

// Level maps verbosity flags to a level. Quiet wins over verbose.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
