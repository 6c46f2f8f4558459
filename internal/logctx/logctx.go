// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package logctx holds the frame graph's process-wide logger, following the
// teacher's atomically-swappable *slog.Logger pattern (hal/logger.go): a
// package-level atomic pointer defaulting to a discarding logger, replaced
// wholesale by SetLogger rather than threaded through every constructor.
package logctx

import (
	"io"
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger replaces the active logger. Passing nil restores the
// discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	current.Store(l)
}

// Logger returns the currently active logger.
func Logger() *slog.Logger {
	return current.Load()
}
