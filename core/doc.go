// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package core implements the frame-graph compiler and its deferred command
// recorder: handle-based resource registries, a tagged arena allocator, the
// per-pass command stream, argument buffers, the resource-binding encoder
// and its specialised variants (render/compute/blit/external), the pass
// recorder, and the compiler that turns a batch of recorded passes into an
// ordered, dependency-aware plan for a backend to execute.
//
// Nothing in this package talks to a GPU. Concrete backends, and pipeline
// reflection, are consumed only through the interfaces in package backend.
package core
