// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "github.com/gogpu/framegraph/types"

// PersistentRegistries aggregates one Registry per resource kind for
// resources that survive across frame-graph executions, generalising the
// teacher's Hub (spec §4.A). A FrameGraph owns exactly one of these for its
// whole lifetime.
type PersistentRegistries struct {
	Buffers              *Registry[types.BufferDescriptor]
	Textures             *Registry[types.TextureDescriptor]
	Samplers             *Registry[types.SamplerDescriptor]
	ArgumentBuffers      *Registry[*ArgumentBuffer]
	ArgumentBufferArrays *Registry[*ArgumentBufferArray]
	ThreadgroupMemories  *Registry[ThreadgroupMemoryDescriptor]
}

// NewPersistentRegistries constructs an empty set of persistent registries,
// one per resource kind.
func NewPersistentRegistries() *PersistentRegistries {
	return &PersistentRegistries{
		Buffers:             NewPersistentRegistry[types.BufferDescriptor](KindBuffer),
		Textures:            NewPersistentRegistry[types.TextureDescriptor](KindTexture),
		Samplers:            NewPersistentRegistry[types.SamplerDescriptor](KindSampler),
		ArgumentBuffers:      NewPersistentRegistry[*ArgumentBuffer](KindArgumentBuffer),
		ArgumentBufferArrays: NewPersistentRegistry[*ArgumentBufferArray](KindArgumentBufferArray),
		ThreadgroupMemories:  NewPersistentRegistry[ThreadgroupMemoryDescriptor](KindThreadgroupMemory),
	}
}

// TransientRegistries aggregates one Registry per resource kind for
// resources scoped to a single frame-graph execution. graphID ties every
// handle these registries issue to one FrameGraph instance, so a transient
// handle can never be mistaken for a same-indexed one owned by a different
// FrameGraph (spec §4.A, §7).
type TransientRegistries struct {
	GraphID uint8

	Buffers              *Registry[types.BufferDescriptor]
	Textures             *Registry[types.TextureDescriptor]
	ArgumentBuffers      *Registry[*ArgumentBuffer]
	ArgumentBufferArrays *Registry[*ArgumentBufferArray]
	ThreadgroupMemories  *Registry[ThreadgroupMemoryDescriptor]

	frameTag uint8
}

// NewTransientRegistries constructs an empty set of transient registries
// tagged with graphID.
func NewTransientRegistries(graphID uint8) *TransientRegistries {
	return &TransientRegistries{
		GraphID:              graphID,
		Buffers:              NewTransientRegistry[types.BufferDescriptor](KindBuffer, graphID),
		Textures:             NewTransientRegistry[types.TextureDescriptor](KindTexture, graphID),
		ArgumentBuffers:      NewTransientRegistry[*ArgumentBuffer](KindArgumentBuffer, graphID),
		ArgumentBufferArrays: NewTransientRegistry[*ArgumentBufferArray](KindArgumentBufferArray, graphID),
		ThreadgroupMemories:  NewTransientRegistry[ThreadgroupMemoryDescriptor](KindThreadgroupMemory, graphID),
	}
}

// Reset reclaims every transient handle issued so far and begins a new
// frame, called once at the start of each FrameGraph execution (spec §4.H
// phase 0).
func (t *TransientRegistries) Reset() {
	t.frameTag++
	t.Buffers.Reset(t.frameTag)
	t.Textures.Reset(t.frameTag)
	t.ArgumentBuffers.Reset(t.frameTag)
	t.ArgumentBufferArrays.Reset(t.frameTag)
	t.ThreadgroupMemories.Reset(t.frameTag)
}

// FrameTag returns the generation tag transient handles issued since the
// last Reset carry.
func (t *TransientRegistries) FrameTag() uint8 { return t.frameTag }

// IsValidHandle reports whether h refers to a live resource, routing to the
// persistent or transient registry set and resource kind indicated by h
// itself. It is a contract violation to validate a transient handle against
// the wrong FrameGraph's registries (spec §7) — callers that might cross
// graphs should check GraphID first.
func IsValidHandle(p *PersistentRegistries, t *TransientRegistries, h Handle) bool {
	if h.IsPersistent() {
		switch h.Kind() {
		case KindBuffer:
			return p.Buffers.IsValid(h)
		case KindTexture:
			return p.Textures.IsValid(h)
		case KindSampler:
			return p.Samplers.IsValid(h)
		case KindArgumentBuffer:
			return p.ArgumentBuffers.IsValid(h)
		case KindArgumentBufferArray:
			return p.ArgumentBufferArrays.IsValid(h)
		case KindThreadgroupMemory:
			return p.ThreadgroupMemories.IsValid(h)
		}
		return false
	}
	if t == nil || h.GraphID() != t.GraphID {
		return false
	}
	switch h.Kind() {
	case KindBuffer:
		return t.Buffers.IsValid(h)
	case KindTexture:
		return t.Textures.IsValid(h)
	case KindArgumentBuffer:
		return t.ArgumentBuffers.IsValid(h)
	case KindArgumentBufferArray:
		return t.ArgumentBufferArrays.IsValid(h)
	case KindThreadgroupMemory:
		return t.ThreadgroupMemories.IsValid(h)
	}
	return false
}
