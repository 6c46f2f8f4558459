// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "fmt"

// Handle packs everything needed to locate and validate a resource record
// into a single 64-bit value. The layout is fixed so that a handle saved by
// a caller remains meaningful across frames:
//
//	bits  0–28 (29 bits): index into the owning registry's chunk array
//	bits 29–31 ( 3 bits): transient-registry identifier (which FrameGraph
//	                      owns this handle; ignored for persistent handles)
//	bits 32–39 ( 8 bits): flags (see HandleFlags)
//	bits 40–47 ( 8 bits): generation (persistent) or frame-index low bits
//	                      (transient)
//	bits 48–55 ( 8 bits): resource kind (see ResourceKind)
//	bits 56–63 ( 8 bits): reserved, always zero
type Handle uint64

const (
	handleIndexBits       = 29
	handleGraphBits       = 3
	handleFlagsBits       = 8
	handleGenerationBits  = 8
	handleKindBits        = 8
	handleIndexShift      = 0
	handleGraphShift      = handleIndexShift + handleIndexBits
	handleFlagsShift      = handleGraphShift + handleGraphBits
	handleGenerationShift = handleFlagsShift + handleFlagsBits
	handleKindShift       = handleGenerationShift + handleGenerationBits

	handleIndexMask      = (uint64(1) << handleIndexBits) - 1
	handleGraphMask      = (uint64(1) << handleGraphBits) - 1
	handleFlagsMask      = (uint64(1) << handleFlagsBits) - 1
	handleGenerationMask = (uint64(1) << handleGenerationBits) - 1
	handleKindMask       = (uint64(1) << handleKindBits) - 1

	// MaxRegistryIndex is the largest index a 29-bit field can address.
	MaxRegistryIndex = uint32(handleIndexMask)
	// MaxTransientGraphs is the number of distinct frame-graph instances
	// that can own transient handles concurrently.
	MaxTransientGraphs = uint32(handleGraphMask) + 1
)

// ResourceKind identifies what a handle refers to.
type ResourceKind uint8

const (
	KindBuffer ResourceKind = iota
	KindTexture
	KindSampler
	KindArgumentBuffer
	KindArgumentBufferArray
	KindThreadgroupMemory
)

// String implements fmt.Stringer.
func (k ResourceKind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	case KindArgumentBuffer:
		return "argumentBuffer"
	case KindArgumentBufferArray:
		return "argumentBufferArray"
	case KindThreadgroupMemory:
		return "threadgroupMemory"
	default:
		return fmt.Sprintf("ResourceKind(%d)", uint8(k))
	}
}

// HandleFlags are per-resource flags packed into the handle, so that some
// usage decisions (does this resource force its writer to be active?) can be
// made without a registry lookup.
type HandleFlags uint8

const (
	// FlagPersistent marks a handle as belonging to a persistent registry
	// rather than a transient, per-frame one.
	FlagPersistent HandleFlags = 1 << iota
	// FlagWindowHandle marks a texture as the backend's window/swapchain
	// target. Writing it always makes the writing pass side-effecting.
	FlagWindowHandle
	// FlagHistoryBuffer marks a resource carried across frames outside the
	// compiler's own dependency tracking (e.g. TAA history).
	FlagHistoryBuffer
	// FlagImmutableOnceInitialised marks a persistent resource that may be
	// written only until the StateInitialised bit of its ResourceState has
	// been set, and never again.
	FlagImmutableOnceInitialised
	// FlagExternalOwnership marks a resource whose lifetime the backend
	// manages outside the registry (e.g. an externally-imported texture).
	FlagExternalOwnership
	// FlagResourceView marks a handle as a view over another resource. See
	// DESIGN.md Open Questions for how this affects dependency tracking.
	FlagResourceView
)

// HasSideEffectFlags reports whether any of the given flags should make a
// writing pass side-effecting on its own (spec §4.H phase 3).
func (f HandleFlags) HasSideEffectFlags() bool {
	const sideEffecting = FlagPersistent | FlagWindowHandle | FlagHistoryBuffer | FlagExternalOwnership
	return f&sideEffecting != 0
}

// NewPersistentHandle packs a persistent resource handle.
func NewPersistentHandle(kind ResourceKind, index uint32, generation uint8, flags HandleFlags) Handle {
	return pack(kind, index, 0, flags|FlagPersistent, generation)
}

// NewTransientHandle packs a transient resource handle, tagged with the
// owning frame-graph identifier and the current frame's low generation bits.
func NewTransientHandle(kind ResourceKind, index uint32, graphID uint8, frameTag uint8, flags HandleFlags) Handle {
	return pack(kind, index, graphID, flags&^FlagPersistent, frameTag)
}

func pack(kind ResourceKind, index uint32, graphID uint8, flags HandleFlags, generation uint8) Handle {
	if index > MaxRegistryIndex {
		panic(fmt.Sprintf("core: registry index %d exceeds %d-bit field", index, handleIndexBits))
	}
	h := uint64(index&uint32(handleIndexMask)) << handleIndexShift
	h |= uint64(graphID) & handleGraphMask << handleGraphShift
	h |= uint64(flags) & handleFlagsMask << handleFlagsShift
	h |= uint64(generation) & handleGenerationMask << handleGenerationShift
	h |= uint64(kind) & handleKindMask << handleKindShift
	return Handle(h)
}

// Index returns the registry-chunk index component.
func (h Handle) Index() uint32 {
	return uint32((uint64(h) >> handleIndexShift) & handleIndexMask)
}

// GraphID returns the owning transient frame-graph identifier. Meaningless
// for persistent handles.
func (h Handle) GraphID() uint8 {
	return uint8((uint64(h) >> handleGraphShift) & handleGraphMask)
}

// Flags returns the packed flag bits.
func (h Handle) Flags() HandleFlags {
	return HandleFlags((uint64(h) >> handleFlagsShift) & handleFlagsMask)
}

// Generation returns the generation (persistent) or frame-tag (transient)
// component.
func (h Handle) Generation() uint8 {
	return uint8((uint64(h) >> handleGenerationShift) & handleGenerationMask)
}

// Kind returns the resource kind component.
func (h Handle) Kind() ResourceKind {
	return ResourceKind((uint64(h) >> handleKindShift) & handleKindMask)
}

// IsPersistent reports whether the handle was allocated from a persistent
// registry.
func (h Handle) IsPersistent() bool {
	return h.Flags()&FlagPersistent != 0
}

// IsZero reports whether h is the zero handle (never a valid allocation).
func (h Handle) IsZero() bool {
	return h == 0
}

// String implements fmt.Stringer for diagnostics.
func (h Handle) String() string {
	return fmt.Sprintf("Handle(kind=%s, index=%d, gen=%d, graph=%d, flags=%08b)",
		h.Kind(), h.Index(), h.Generation(), h.GraphID(), h.Flags())
}
