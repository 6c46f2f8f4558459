// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package noop is an in-memory backend.Backend implementation (buffers and
// textures are plain Go byte slices held in maps), adapted from the teacher's hal/noop package, sufficient
// to drive the orchestrator and compiler in tests without a real GPU (spec
// §6.1).
package noop
