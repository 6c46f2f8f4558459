// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package framegraph

import "github.com/gogpu/framegraph/core"

// Re-exported so callers write framegraph.DrawEncoder instead of reaching
// into package core directly for the types they interact with day to day.
type (
	DrawEncoder            = core.DrawEncoder
	ComputeEncoder         = core.ComputeEncoder
	BlitEncoder            = core.BlitEncoder
	ExternalEncoder        = core.ExternalEncoder
	RenderTargetDescriptor = core.RenderTargetDescriptor
	ColorAttachment        = core.ColorAttachment
	DepthStencilAttachment = core.DepthStencilAttachment
	ClearOp                = core.ClearOp
	ResourceUsage          = core.ResourceUsage
	Handle                 = core.Handle
)

const (
	ClearOpKeep         = core.ClearOpKeep
	ClearOpClearColor   = core.ClearOpClearColor
	ClearOpClearDepth   = core.ClearOpClearDepth
	ClearOpClearStencil = core.ClearOpClearStencil
)

// AddDrawPass queues a draw pass. record is invoked with a *DrawEncoder
// either immediately in parallel with other eagerly-recordable passes, or
// lazily if declaredWrites is non-empty (spec §4.H phase 2); in the latter
// case the pass's actual writes are still whatever the encoder records —
// declaredWrites only seeds the pre-recording dependency estimate.
func (fg *FrameGraph) AddDrawPass(name string, rt RenderTargetDescriptor, declaredWrites []Handle, record func(*DrawEncoder)) *core.PassRecord {
	p := core.NewPassRecord(0, core.PassDraw, name, core.NewCommandStream(512))
	p.DeclaredWrites = declaredWrites
	p.RecordFn = func() {
		e := core.NewDrawEncoder(p, fg.persistent, fg.transient, rt)
		record(e)
		e.EndEncoding()
	}
	return fg.addPass(p)
}

// AddComputePass queues a compute pass.
func (fg *FrameGraph) AddComputePass(name string, declaredWrites []Handle, record func(*ComputeEncoder)) *core.PassRecord {
	p := core.NewPassRecord(0, core.PassCompute, name, core.NewCommandStream(256))
	p.DeclaredWrites = declaredWrites
	p.RecordFn = func() {
		e := core.NewComputeEncoder(p, fg.persistent, fg.transient)
		record(e)
		e.EndEncoding()
	}
	return fg.addPass(p)
}

// AddBlitPass queues a blit pass.
func (fg *FrameGraph) AddBlitPass(name string, declaredWrites []Handle, record func(*BlitEncoder)) *core.PassRecord {
	p := core.NewPassRecord(0, core.PassBlit, name, core.NewCommandStream(128))
	p.DeclaredWrites = declaredWrites
	p.RecordFn = func() {
		e := core.NewBlitEncoder(p, fg.persistent, fg.transient)
		record(e)
		e.EndEncoding()
	}
	return fg.addPass(p)
}

// AddExternalPass queues an external pass for opaque backend calls.
func (fg *FrameGraph) AddExternalPass(name string, declaredWrites []Handle, record func(*ExternalEncoder)) *core.PassRecord {
	p := core.NewPassRecord(0, core.PassExternal, name, core.NewCommandStream(64))
	p.DeclaredWrites = declaredWrites
	p.RecordFn = func() {
		e := core.NewExternalEncoder(p, fg.persistent, fg.transient)
		record(e)
		e.EndEncoding()
	}
	return fg.addPass(p)
}

// AddCPUPass queues a CPU-only pass: callback runs on the calling thread
// during compilation, with no GPU commands recorded (spec §4.H phase 2 "CPU
// passes with no written resources run immediately on the calling thread").
func (fg *FrameGraph) AddCPUPass(name string, declaredWrites []Handle, callback func()) *core.PassRecord {
	p := core.NewPassRecord(0, core.PassCPU, name, core.NewCommandStream(0))
	p.DeclaredWrites = declaredWrites
	p.CPUCallback = callback
	p.RecordFn = callback
	return fg.addPass(p)
}
