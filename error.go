// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/core"
)

// Sentinel errors re-exported at the package root so callers need not import
// core or backend directly just to compare against errors.Is.
var (
	ErrNotFound        = core.ErrNotFound
	ErrStaleGeneration = core.ErrStaleGeneration
	ErrRegistryFull    = core.ErrRegistryFull
	ErrUnsupported     = backend.ErrUnsupported
)

// ContractError reports a programmer contract violation detected while
// recording or compiling a frame: an invalid handle, a cross-graph transient
// reference, a write past an immutable-once-initialised resource, and so on
// (spec §7). These are always raised via panic, never returned, since the
// conditions they describe indicate a bug in the calling code that
// recording cannot safely continue past.
type ContractError = core.ContractError
