// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the structured logger for CLI commands. When
// stderr is a terminal it uses slog.TextHandler for human-readable
// output; when stderr is piped or redirected it uses slog.JSONHandler.
//
// Callers scope the logger with command context via With():
//
//	logger := cli.NewCommandLogger(verbose).With("command", "dropbox/upload")
func NewCommandLogger(verbose bool) *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), verbose)
}

func newLogger(w io.Writer, terminal, verbose bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}
	if terminal {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
