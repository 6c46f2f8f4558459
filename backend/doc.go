// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package backend declares the interfaces a concrete GPU backend implements
// to execute a compiled frame graph (spec §6). Package core never imports
// this package — core.PipelineReflection is the narrower interface it
// actually depends on; Reflection here embeds it so a single backend object
// satisfies both core's recording-time needs and the orchestrator's
// execution-time needs. Package backend/noop provides a reference
// implementation used by tests and as a template for a real backend.
package backend
