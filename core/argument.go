// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// ArgumentBufferDescriptor describes an argument buffer: a GPU-visible
// descriptor block grouping several bindings (textures, buffers, samplers,
// inline bytes) behind a single slot (spec §4.D, Glossary). Bindings are
// attached after allocation through the ArgumentBuffer methods SetBytes,
// SetBuffer, SetTexture and SetSampler; the descriptor itself only carries
// a label and a capacity field.
type ArgumentBufferDescriptor struct {
	// Label is a debug label.
	Label string
	// MaxBindings is stored with the descriptor but nothing reads it; the
	// pending-binding list is not pre-allocated and grows on demand.
	MaxBindings int
}

// ArgumentBufferArrayDescriptor describes a fixed-size array of argument
// buffers sharing one binding slot, used for bindless-style indexing.
type ArgumentBufferArrayDescriptor struct {
	// Label is a debug label.
	Label string
	// Count is the number of argument-buffer elements in the array.
	Count int
}

// ThreadgroupMemoryDescriptor describes a compute-pass-local block of
// on-chip memory that a pipeline reads and writes entirely within one
// dispatch, never touching a backing resource.
type ThreadgroupMemoryDescriptor struct {
	// Label is a debug label.
	Label string
	// Length is the size in bytes reserved per threadgroup.
	Length uint32
	// Index is the slot index the pipeline expects this allocation at.
	Index uint32
}

// PendingBindingKind discriminates the per-slot binding union staged in an
// argument buffer before translation (spec §4.D).
type PendingBindingKind uint8

const (
	PendingBufferOffset PendingBindingKind = iota
	PendingTexture
	PendingSampler
	PendingInlineBytes
)

// PendingBinding is one (key, array-index, kind) entry staged in an
// argument buffer, not yet translated to a backend binding path.
type PendingBinding struct {
	Key        string
	ArrayIndex int
	Kind       PendingBindingKind

	Buffer       Handle
	BufferOffset uint64
	Texture      Handle
	Sampler      Handle

	// InlineOffset/InlineLength index into the owning ArgumentBuffer's
	// inline-byte slab when Kind == PendingInlineBytes.
	InlineOffset int
	InlineLength int
}

// ResolvedBinding is a PendingBinding that has already been translated to a
// concrete backend binding path, so the argument buffer need not re-resolve
// it against every later pipeline change.
type ResolvedBinding struct {
	PendingBinding
	Path any // backend-defined binding path, kept untyped here to avoid an import cycle
}

// ArgumentBuffer is the record stored in the argument-buffer registry: the
// pending/resolved binding lists and the inline-byte slab backing any
// set_bytes entries (spec §3, §4.D). It reuses the same chunked-registry
// record layout as any other resource. The ArgumentBuffer methods SetBytes,
// SetBuffer, SetTexture, SetSampler and TranslateEnqueuedBindings mutate it;
// BindingEncoder.updateResourceUsages only reads its Pending list.
type ArgumentBuffer struct {
	Descriptor ArgumentBufferDescriptor

	Pending  []PendingBinding
	Resolved []ResolvedBinding

	InlineBytes []byte

	// SourceArray, when non-nil, is a weak reference (by index, never an
	// owning pointer — see DESIGN.md) to the ArgumentBufferArray this
	// buffer was staged from via set_argument_buffer_array.
	SourceArray    *Handle
	SourceArrayIdx int
}

// ArgumentBufferArray is the record stored in the argument-buffer-array
// registry: a fixed-size collection of argument-buffer handles sharing one
// binding slot.
type ArgumentBufferArray struct {
	Descriptor ArgumentBufferArrayDescriptor
	Elements   []Handle
}
