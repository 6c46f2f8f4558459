// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "github.com/gogpu/framegraph/types"

// ClearOp selects what a draw pass does to one attachment before its first
// use: keep the existing contents, or clear to a fixed value (spec §4.F
// "draw pass additionally exposes per-attachment clear operations").
type ClearOp uint8

const (
	ClearOpKeep ClearOp = iota
	ClearOpClearColor
	ClearOpClearDepth
	ClearOpClearStencil
)

// ColorAttachment binds a texture handle to one color slot of a render
// target, with the clear/load behaviour the draw pass requested for it.
type ColorAttachment struct {
	Texture       Handle
	ResolveTarget Handle
	Clear         ClearOp
	ClearValue    types.Color
	LoadOp        types.LoadOp
	StoreOp       types.StoreOp
}

// DepthStencilAttachment binds a texture handle to the depth/stencil slot of
// a render target.
type DepthStencilAttachment struct {
	Texture Handle

	DepthClear      ClearOp
	DepthClearValue float32
	DepthLoadOp     types.LoadOp
	DepthStoreOp    types.StoreOp
	DepthReadOnly   bool

	StencilClear      ClearOp
	StencilClearValue uint32
	StencilLoadOp     types.LoadOp
	StencilStoreOp    types.StoreOp
	StencilReadOnly   bool
}

// RenderTargetDescriptor names the set of attachments a draw pass renders
// into. Two draw passes with mergeable descriptors (RenderTargetsMergeable)
// can be emitted as a single GPU render-pass instance (spec §4.H phase 5).
type RenderTargetDescriptor struct {
	Label           string
	ColorAttachment [8]ColorAttachment
	ColorCount      int
	DepthStencil    *DepthStencilAttachment
}

// EffectiveRenderTarget returns rt with every color attachment slot removed
// that is unused and whose Clear is ClearOpKeep, per spec §4.F's "effective
// render-target descriptor (after filtering attachments that are never used
// and require no clear)". The depth/stencil attachment is kept as is. used
// reports, per color index, whether the draw pass recorded any usage
// against that attachment's texture.
func EffectiveRenderTarget(rt RenderTargetDescriptor, used [8]bool) RenderTargetDescriptor {
	out := RenderTargetDescriptor{Label: rt.Label, DepthStencil: rt.DepthStencil}
	for i := 0; i < rt.ColorCount; i++ {
		att := rt.ColorAttachment[i]
		if !used[i] && att.Clear == ClearOpKeep {
			continue
		}
		out.ColorAttachment[out.ColorCount] = att
		out.ColorCount++
	}
	return out
}

// RenderTargetsMergeable compares two render-target descriptors' attachment
// textures, formats, sample counts, load/store ops and sizes, and reports
// whether passes using them may be emitted as one GPU render-pass instance
// (spec §4.H phase 5, §7 "Render-target mergeability"). formatOf and sizeOf
// resolve a texture handle to its format and extent; sampleCountOf resolves
// its sample count. All three are supplied by the caller to keep this a
// pure comparison. The compiler does not call this function; it compares
// render targets with its own passRenderTargetsMergeable.
func RenderTargetsMergeable(
	a, b RenderTargetDescriptor,
	formatOf func(Handle) types.TextureFormat,
	sampleCountOf func(Handle) uint32,
	sizeOf func(Handle) types.Extent3D,
) bool {
	if a.ColorCount != b.ColorCount {
		return false
	}
	for i := 0; i < a.ColorCount; i++ {
		ca, cb := a.ColorAttachment[i], b.ColorAttachment[i]
		if !attachmentCompatible(ca.Texture, cb.Texture, formatOf, sampleCountOf, sizeOf) {
			return false
		}
		if ca.LoadOp != cb.LoadOp || ca.StoreOp != cb.StoreOp {
			return false
		}
	}
	if (a.DepthStencil == nil) != (b.DepthStencil == nil) {
		return false
	}
	if a.DepthStencil != nil {
		da, db := a.DepthStencil, b.DepthStencil
		if !attachmentCompatible(da.Texture, db.Texture, formatOf, sampleCountOf, sizeOf) {
			return false
		}
		if da.DepthLoadOp != db.DepthLoadOp || da.DepthStoreOp != db.DepthStoreOp {
			return false
		}
		if da.StencilLoadOp != db.StencilLoadOp || da.StencilStoreOp != db.StencilStoreOp {
			return false
		}
	}
	return true
}

func attachmentCompatible(
	a, b Handle,
	formatOf func(Handle) types.TextureFormat,
	sampleCountOf func(Handle) uint32,
	sizeOf func(Handle) types.Extent3D,
) bool {
	if a.IsZero() != b.IsZero() {
		return false
	}
	if a.IsZero() {
		return true
	}
	if formatOf(a) != formatOf(b) {
		return false
	}
	if sampleCountOf(a) != sampleCountOf(b) {
		return false
	}
	return sizeOf(a) == sizeOf(b)
}
