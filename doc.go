// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package framegraph is the public entry point to the frame graph compiler
// and executor: client code builds a FrameGraph, adds passes describing
// what they read and write, and calls Execute once per frame. Everything
// that actually records commands, infers dependencies, prunes and orders
// passes lives in package core; framegraph is a thin orchestrator around it
// plus the registry-facing resource constructors (spec §4.I).
package framegraph
