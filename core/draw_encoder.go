// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "github.com/gogpu/framegraph/types"

// DrawEncoder records a draw pass: its render target, vertex buffer slots,
// pipeline/depth-stencil state, and draw calls (spec §4.F "Render (draw)
// encoder").
type DrawEncoder struct {
	BindingEncoder

	renderTarget RenderTargetDescriptor
	vertexBound  [8]Handle

	colorWriteMask [8]types.ColorWriteMask
	colorBlended   [8]bool
	depthWrite     bool
	depthCompare   types.CompareFunction
	stencilActive  bool
}

// NewDrawEncoder begins recording a draw pass against rt. Every attachment
// gets a writeOnlyRenderTarget usage if cleared, else unusedRenderTarget; if
// any attachment is cleared, a clear_render_targets command is emitted so
// downstream barrier analysis sees the clear even in an otherwise-empty
// encoder (spec §4.F).
func NewDrawEncoder(pass *PassRecord, persistent *PersistentRegistries, transient *TransientRegistries, rt RenderTargetDescriptor) *DrawEncoder {
	e := &DrawEncoder{BindingEncoder: NewBindingEncoder(pass, persistent, transient), renderTarget: rt}
	pass.RenderTarget = &e.renderTarget
	pass.Commands.Append(CmdPushDebugGroup, &DebugGroupPayload{Name: pass.Name})

	anyCleared := false
	for i := 0; i < rt.ColorCount; i++ {
		att := rt.ColorAttachment[i]
		usage := UsageUnusedRenderTarget
		if att.Clear != ClearOpKeep {
			usage = UsageWriteOnlyRenderTarget
			anyCleared = true
			pass.RenderTargetUsed[i] = true
		}
		pass.AddUsage(&ResourceUsage{Handle: att.Texture, Kind: usage, Stages: StageFragment})
	}
	if ds := rt.DepthStencil; ds != nil {
		usage := UsageUnusedRenderTarget
		if ds.DepthClear != ClearOpKeep || ds.StencilClear != ClearOpKeep {
			usage = UsageWriteOnlyRenderTarget
			anyCleared = true
		}
		pass.AddUsage(&ResourceUsage{Handle: ds.Texture, Kind: usage, Stages: StageFragment})
	}
	if anyCleared {
		pass.Commands.Append(CmdClearRenderTargets, nil)
	}
	return e
}

// SetRenderPipelineDescriptor installs the active pipeline and extends
// color-attachment usages from its write masks and blend states: a
// non-empty write mask with blending promotes to readWriteRenderTarget; a
// non-empty mask without blending promotes to writeOnlyRenderTarget; an
// empty mask leaves the attachment unused. Promotion is monotone (spec
// §4.F).
func (e *DrawEncoder) SetRenderPipelineDescriptor(targets []types.ColorTargetState, reflection PipelineReflection) {
	e.SetPipelineReflection(reflection)
	for i, t := range targets {
		if i >= e.renderTarget.ColorCount {
			break
		}
		if t.WriteMask == 0 {
			continue
		}
		e.colorWriteMask[i] = t.WriteMask
		next := UsageWriteOnlyRenderTarget
		if t.Blend != nil {
			next = UsageReadWriteRenderTarget
			e.colorBlended[i] = true
		}
		e.promoteColorUsage(i, next)
		e.pass.RenderTargetUsed[i] = true
	}
	e.pass.Commands.Append(CmdSetRenderPipeline, nil)
}

func (e *DrawEncoder) promoteColorUsage(i int, next UsageKind) {
	for _, u := range e.pass.Usages {
		if u.Handle == e.renderTarget.ColorAttachment[i].Texture && u.Stages == StageFragment {
			u.Kind = u.Kind.Promote(next)
		}
	}
}

// SetDepthStencilDescriptor extends the depth/stencil attachment's usage per
// spec §4.F: depth write enabled promotes to at least write-only; depth
// compare other than "always" promotes to read-write. Stencil state is not
// inspected: the method takes no stencil compare or op, and no usage is
// recorded for stencil access.
func (e *DrawEncoder) SetDepthStencilDescriptor(depthWriteEnabled bool, depthCompare types.CompareFunction) {
	e.depthWrite = depthWriteEnabled
	e.depthCompare = depthCompare
	if e.renderTarget.DepthStencil == nil {
		return
	}
	next := UsageUnusedRenderTarget
	if depthWriteEnabled {
		next = UsageWriteOnlyRenderTarget
	}
	if depthCompare != types.CompareFunctionAlways && depthCompare != types.CompareFunctionUndefined {
		next = UsageReadWriteRenderTarget
	}
	if next == UsageUnusedRenderTarget {
		return
	}
	for _, u := range e.pass.Usages {
		if u.Handle == e.renderTarget.DepthStencil.Texture {
			u.Kind = u.Kind.Promote(next)
		}
	}
	e.pass.Commands.Append(CmdSetDepthStencilState, nil)
}

// SetVertexBuffer closes the previous binding's usage interval at this
// index, registers the new buffer as a vertexBuffer usage over the vertex
// stage, and emits the command (spec §4.F).
func (e *DrawEncoder) SetVertexBuffer(index int, buf Handle, offset uint64) {
	if prior := e.vertexBound[index]; !prior.IsZero() {
		for _, u := range e.pass.Usages {
			if u.Handle == prior && u.Kind == UsageVertexBuffer {
				u.LastCommand = e.lastGPUCommandIndex
			}
		}
	}
	e.vertexBound[index] = buf
	idx := e.pass.Commands.Append(CmdSetVertexBuffer, &SetBufferPayload{Buffer: buf, Offset: offset})
	e.pass.AddUsage(&ResourceUsage{Handle: buf, Kind: UsageVertexBuffer, Stages: StageVertex, FirstCommand: idx, LastCommand: idx})
}

// DrawPrimitives records a non-indexed draw call.
func (e *DrawEncoder) DrawPrimitives(instanceCount int) {
	if instanceCount <= 0 {
		violate("DrawPrimitives", "instance_count must be > 0, got %d", 0, instanceCount)
	}
	idx := e.pass.Commands.Append(CmdDrawPrimitives, nil)
	e.noteCommand(idx)
}

// DrawIndexedPrimitives records an indexed draw call, registering indexBuf
// as an indexBuffer usage.
func (e *DrawEncoder) DrawIndexedPrimitives(indexBuf Handle, instanceCount int) {
	if instanceCount <= 0 {
		violate("DrawIndexedPrimitives", "instance_count must be > 0, got %d", 0, instanceCount)
	}
	idx := e.pass.Commands.Append(CmdDrawIndexedPrimitives, nil)
	e.pass.AddUsage(&ResourceUsage{Handle: indexBuf, Kind: UsageIndexBuffer, Stages: StageVertex, FirstCommand: idx, LastCommand: idx})
	e.noteCommand(idx)
}

// EndEncoding closes the encoder. Any attachment with a resolve texture
// gets a writeOnlyRenderTarget usage recorded at the pass's last command
// (spec §4.F "Resolve attachments").
func (e *DrawEncoder) EndEncoding() {
	for i := 0; i < e.renderTarget.ColorCount; i++ {
		if r := e.renderTarget.ColorAttachment[i].ResolveTarget; !r.IsZero() {
			e.pass.AddUsage(&ResourceUsage{
				Handle: r, Kind: UsageWriteOnlyRenderTarget, Stages: StageFragment,
				FirstCommand: e.lastGPUCommandIndex, LastCommand: e.lastGPUCommandIndex,
			})
		}
	}
	e.BindingEncoder.EndEncoding()
}
