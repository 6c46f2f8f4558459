// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"context"

	"github.com/gogpu/framegraph/core"
	"github.com/gogpu/framegraph/types"
)

// Backend is what the core consumes to turn a compiled plan into GPU work
// (spec §6 "Backend interface").
type Backend interface {
	// BeginFrameResourceAccess asserts the next frame's resources may be
	// touched, called once at the start of FrameGraph.Execute.
	BeginFrameResourceAccess(ctx context.Context) error

	// ExecuteFrameGraph consumes the compiled plan. onComplete is invoked
	// with the GPU-side elapsed time once the submitted work finishes,
	// from a backend-owned thread.
	ExecuteFrameGraph(ctx context.Context, plan *core.CompiledPlan, onComplete func(gpuSeconds float64)) error

	// RenderPipelineReflection resolves binding paths for a render
	// pipeline against a render-target shape.
	RenderPipelineReflection(desc RenderPipelineDescriptor, rt core.RenderTargetDescriptor) (Reflection, error)

	// ComputePipelineReflection resolves binding paths for a compute
	// pipeline.
	ComputePipelineReflection(desc ComputePipelineDescriptor) (Reflection, error)

	// ArgumentBufferPath returns the binding path an argument buffer
	// itself occupies at setIndex for the given stages.
	ArgumentBufferPath(setIndex int, stages core.Stage) (any, error)

	// ThreadExecutionWidth reports the backend's native SIMD/warp width.
	ThreadExecutionWidth() uint32

	// MaterialisePersistentBuffer/Texture allocate backend storage for a
	// persistent resource the registry has recorded but not yet backed.
	MaterialisePersistentBuffer(desc types.BufferDescriptor) (any, error)
	MaterialisePersistentTexture(desc types.TextureDescriptor) (any, error)

	// ReplaceTextureRegion uploads CPU-side data into a texture region.
	ReplaceTextureRegion(texture any, region core.ResourceRange, data []byte) error

	// BufferContents returns a CPU-visible view of a mapped buffer range.
	BufferContents(buffer any, r core.ResourceRange) ([]byte, error)

	// BufferDidModifyRange informs the backend that CPU code wrote into a
	// buffer range obtained from BufferContents.
	BufferDidModifyRange(buffer any, r core.ResourceRange) error

	// RegisterWindowTexture binds a swapchain/window surface to texture,
	// so passes writing it are treated as side-effecting (spec §4.H
	// phase 3, FlagWindowHandle).
	RegisterWindowTexture(texture any, nativeWindow any) error
}

// Reflection is what a BindingEncoder consumes to resolve user keys against
// an active pipeline (spec §6 "Reflection interface"). It embeds
// core.PipelineReflection so a Reflection value can be passed directly to
// core.BindingEncoder.SetPipelineReflection.
type Reflection interface {
	core.PipelineReflection

	// BindingIsActive reports whether path is currently read or written by
	// the pipeline.
	BindingIsActive(path any) bool

	// ArgumentReflection returns the full reflection record for path, if
	// any argument resolves to it.
	ArgumentReflection(path any) (ArgumentInfo, bool)

	// ArgumentBufferEncoder returns the backend's opaque encoder object for
	// the argument buffer bound at path, lazily resolved and cached by the
	// caller (spec §4.D "argument_buffer_encoder").
	ArgumentBufferEncoder(path any) any

	// RebindInArgumentBuffer resolves the binding path a nested argument
	// resolves to when its containing buffer is re-pointed at newPath.
	RebindInArgumentBuffer(original any, newArgBufferPath any) any
}

// ArgumentInfo is the reflection record for one resolved binding path.
type ArgumentInfo struct {
	Path     any
	Kind     core.PendingBindingKind
	Usage    core.UsageKind
	Stages   core.Stage
	IsActive bool
}

// RenderPipelineDescriptor describes a render pipeline to be reflected,
// grounded on the teacher's RenderPipelineDescriptor (backend/descriptor.go
// before trimming — see DESIGN.md).
type RenderPipelineDescriptor struct {
	Label          string
	VertexShader   string
	FragmentShader string
	ColorTargets   []types.ColorTargetState
	DepthStencil   *DepthStencilDescriptor
	Primitive      types.PrimitiveState
	Multisample    types.MultisampleState
}

// DepthStencilDescriptor describes depth/stencil pipeline state.
type DepthStencilDescriptor struct {
	Format            types.TextureFormat
	DepthWriteEnabled bool
	DepthCompare      types.CompareFunction
}

// ComputePipelineDescriptor describes a compute pipeline to be reflected.
type ComputePipelineDescriptor struct {
	Label  string
	Shader string
}
