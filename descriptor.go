// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/core"
	"github.com/gogpu/framegraph/types"
)

// Resource descriptor types, re-exported so callers building a FrameGraph
// need not import types or core for the handful of structs they construct
// directly.
type (
	BufferDescriptor              = types.BufferDescriptor
	TextureDescriptor             = types.TextureDescriptor
	SamplerDescriptor             = types.SamplerDescriptor
	ArgumentBufferDescriptor      = core.ArgumentBufferDescriptor
	ArgumentBufferArrayDescriptor = core.ArgumentBufferArrayDescriptor
	ThreadgroupMemoryDescriptor   = core.ThreadgroupMemoryDescriptor

	RenderPipelineDescriptor  = backend.RenderPipelineDescriptor
	DepthStencilDescriptor    = backend.DepthStencilDescriptor
	ComputePipelineDescriptor = backend.ComputePipelineDescriptor
)

// PassKind discriminates the five recordable pass variants.
type PassKind = core.PassKind

const (
	PassDraw     = core.PassDraw
	PassCompute  = core.PassCompute
	PassBlit     = core.PassBlit
	PassExternal = core.PassExternal
	PassCPU      = core.PassCPU
)
