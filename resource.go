// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"github.com/gogpu/framegraph/core"
	"github.com/gogpu/framegraph/types"
)

// CreateBuffer allocates a persistent buffer and returns its handle. The
// buffer survives across frames until DisposeBuffer is called.
func (fg *FrameGraph) CreateBuffer(desc types.BufferDescriptor) (Handle, error) {
	return fg.persistent.Buffers.Allocate(desc, desc.Label, 0)
}

// CreateTransientBuffer allocates a buffer scoped to the frame currently
// being recorded; its handle is invalidated the next time Execute resets the
// transient registries.
func (fg *FrameGraph) CreateTransientBuffer(desc types.BufferDescriptor) (Handle, error) {
	return fg.transient.Buffers.Allocate(desc, desc.Label, 0)
}

// DisposeBuffer releases a persistent buffer handle for reuse.
func (fg *FrameGraph) DisposeBuffer(h Handle) error { return fg.persistent.Buffers.Dispose(h) }

// CreateTexture allocates a persistent texture.
func (fg *FrameGraph) CreateTexture(desc types.TextureDescriptor) (Handle, error) {
	return fg.persistent.Textures.Allocate(desc, desc.Label, 0)
}

// CreateWindowTexture allocates a persistent texture flagged as the
// backend's window/swapchain target, so the compiler treats every pass that
// writes it as having a side effect (spec §4.H phase 3).
func (fg *FrameGraph) CreateWindowTexture(desc types.TextureDescriptor) (Handle, error) {
	return fg.persistent.Textures.Allocate(desc, desc.Label, core.FlagWindowHandle)
}

// CreateTransientTexture allocates a texture scoped to the current frame.
func (fg *FrameGraph) CreateTransientTexture(desc types.TextureDescriptor) (Handle, error) {
	return fg.transient.Textures.Allocate(desc, desc.Label, 0)
}

// DisposeTexture releases a persistent texture handle for reuse.
func (fg *FrameGraph) DisposeTexture(h Handle) error { return fg.persistent.Textures.Dispose(h) }

// CreateSampler allocates a persistent sampler. Samplers have no transient
// flavour: they carry no per-frame state worth scoping.
func (fg *FrameGraph) CreateSampler(desc types.SamplerDescriptor) (Handle, error) {
	return fg.persistent.Samplers.Allocate(desc, desc.Label, 0)
}

// DisposeSampler releases a persistent sampler handle for reuse.
func (fg *FrameGraph) DisposeSampler(h Handle) error { return fg.persistent.Samplers.Dispose(h) }

// CreateArgumentBuffer allocates a persistent argument buffer ready to
// accept bindings through a BindingEncoder.
func (fg *FrameGraph) CreateArgumentBuffer(desc core.ArgumentBufferDescriptor) (Handle, error) {
	ab := &core.ArgumentBuffer{Descriptor: desc}
	return fg.persistent.ArgumentBuffers.Allocate(ab, desc.Label, 0)
}

// CreateTransientArgumentBuffer allocates an argument buffer scoped to the
// current frame.
func (fg *FrameGraph) CreateTransientArgumentBuffer(desc core.ArgumentBufferDescriptor) (Handle, error) {
	ab := &core.ArgumentBuffer{Descriptor: desc}
	return fg.transient.ArgumentBuffers.Allocate(ab, desc.Label, 0)
}

// DisposeArgumentBuffer releases a persistent argument buffer handle for
// reuse.
func (fg *FrameGraph) DisposeArgumentBuffer(h Handle) error {
	return fg.persistent.ArgumentBuffers.Dispose(h)
}

// CreateArgumentBufferArray allocates a persistent fixed-size array of
// argument-buffer elements for bindless-style indexing.
func (fg *FrameGraph) CreateArgumentBufferArray(desc core.ArgumentBufferArrayDescriptor) (Handle, error) {
	aba := &core.ArgumentBufferArray{Descriptor: desc, Elements: make([]Handle, desc.Count)}
	return fg.persistent.ArgumentBufferArrays.Allocate(aba, desc.Label, 0)
}

// CreateTransientArgumentBufferArray allocates an argument-buffer array
// scoped to the current frame.
func (fg *FrameGraph) CreateTransientArgumentBufferArray(desc core.ArgumentBufferArrayDescriptor) (Handle, error) {
	aba := &core.ArgumentBufferArray{Descriptor: desc, Elements: make([]Handle, desc.Count)}
	return fg.transient.ArgumentBufferArrays.Allocate(aba, desc.Label, 0)
}

// DisposeArgumentBufferArray releases a persistent argument-buffer array
// handle for reuse.
func (fg *FrameGraph) DisposeArgumentBufferArray(h Handle) error {
	return fg.persistent.ArgumentBufferArrays.Dispose(h)
}

// CreateThreadgroupMemory allocates a persistent threadgroup-memory
// descriptor for use by compute passes.
func (fg *FrameGraph) CreateThreadgroupMemory(desc core.ThreadgroupMemoryDescriptor) (Handle, error) {
	return fg.persistent.ThreadgroupMemories.Allocate(desc, desc.Label, 0)
}

// CreateTransientThreadgroupMemory allocates a threadgroup-memory
// descriptor scoped to the current frame.
func (fg *FrameGraph) CreateTransientThreadgroupMemory(desc core.ThreadgroupMemoryDescriptor) (Handle, error) {
	return fg.transient.ThreadgroupMemories.Allocate(desc, desc.Label, 0)
}

// DisposeThreadgroupMemory releases a persistent threadgroup-memory handle
// for reuse.
func (fg *FrameGraph) DisposeThreadgroupMemory(h Handle) error {
	return fg.persistent.ThreadgroupMemories.Dispose(h)
}

// IsValidHandle reports whether h refers to a live resource in either of
// this FrameGraph's registries.
func (fg *FrameGraph) IsValidHandle(h Handle) bool {
	return core.IsValidHandle(fg.persistent, fg.transient, h)
}
