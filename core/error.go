// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for benign, locally-recoverable conditions (spec §7).
var (
	// ErrNotFound is returned when a handle's index has no record (the
	// slot was never allocated, or has been disposed and not reused).
	ErrNotFound = errors.New("core: resource not found")

	// ErrStaleGeneration is returned when a handle's generation no longer
	// matches the record's current generation (persistent) or frame tag
	// (transient) — the handle was valid once but has since been
	// recycled or the frame it belonged to has ended.
	ErrStaleGeneration = errors.New("core: stale handle generation")

	// ErrRegistryFull is returned when a registry cannot allocate another
	// index (29-bit index space exhausted).
	ErrRegistryFull = errors.New("core: registry index space exhausted")

	// ErrNoBindingPath is returned internally when a key fails to resolve
	// against the current pipeline reflection. Callers never see this
	// directly — it is absorbed into "stays pending" or "unused_*"
	// behaviour per spec §4.E/§7.
	ErrNoBindingPath = errors.New("core: binding path not resolved")
)

// ContractError reports a programmer contract violation (spec §7): these
// are fatal by design and are always raised via panic, never returned,
// because the conditions they describe indicate a bug in the calling code
// that recording cannot safely continue past.
type ContractError struct {
	Op      string // operation that detected the violation, e.g. "SetBuffer"
	Message string
	Handle  Handle
}

func (e *ContractError) Error() string {
	if e.Handle != 0 {
		return fmt.Sprintf("core: contract violation in %s: %s (handle=%s)", e.Op, e.Message, e.Handle)
	}
	return fmt.Sprintf("core: contract violation in %s: %s", e.Op, e.Message)
}

// violate panics with a ContractError. Used throughout the recorder and
// compiler for the "Programmer contract violations — fatal" error class
// (spec §7): invalid handle, cross-graph transient use, writes past
// immutable-once-initialised, binding without a pipeline, and so on.
func violate(op, format string, handle Handle, args ...any) {
	panic(&ContractError{Op: op, Message: fmt.Sprintf(format, args...), Handle: handle})
}
