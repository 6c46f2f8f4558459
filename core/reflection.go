// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// PipelineReflection is the only way a BindingEncoder learns how a user key
// maps onto the active pipeline's binding paths (spec §4.E, §6). A concrete
// backend supplies its own implementation (shader reflection against the
// bound pipeline); core never inspects shader bytecode itself. Package
// backend's Reflection interface embeds this one so a backend.Reflection
// value can be handed directly to an encoder without an adapter.
type PipelineReflection interface {
	// ResolveBinding looks up key (and, for an argument-buffer-array
	// element, arrayIndex) against the active pipeline. ok is false if the
	// key has no path in this pipeline at all; active is false if the path
	// exists but the pipeline does not currently read or write through it
	// (e.g. an unused texture slot) — the encoder keeps such a binding as a
	// tracked record with no usage node rather than discarding it, since a
	// later pipeline change may activate it.
	ResolveBinding(key string, arrayIndex int) (path any, active bool, usage UsageKind, stages Stage, ok bool)

	// ResolveArgumentBufferPath looks up the binding path an argument
	// buffer itself occupies under key.
	ResolveArgumentBufferPath(key string) (path any, ok bool)

	// RemapForActiveStages adjusts a binding path resolved under one
	// pipeline for reuse after a stage-affecting pipeline change (spec
	// §4.I "remap_argument_buffer_path_for_active_stages").
	RemapForActiveStages(path any) any

	// ExecutionWidth reports the backend's native SIMD/warp width, used by
	// the compute encoder to decide whether a dispatch's threadgroup size
	// divides it evenly (spec §4.F "Compute encoder").
	ExecutionWidth() uint32
}
