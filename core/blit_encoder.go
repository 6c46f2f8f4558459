// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// BlitEncoder records a blit pass: copies, buffer fills, mipmap generation,
// and explicit synchronisation commands (spec §4.F "Blit encoder"). It is
// stateless beyond the pass it records into and a debug-group label.
type BlitEncoder struct {
	BindingEncoder
}

// NewBlitEncoder begins recording a blit pass.
func NewBlitEncoder(pass *PassRecord, persistent *PersistentRegistries, transient *TransientRegistries) *BlitEncoder {
	e := &BlitEncoder{BindingEncoder: NewBindingEncoder(pass, persistent, transient)}
	pass.Commands.Append(CmdPushDebugGroup, &DebugGroupPayload{Name: pass.Name})
	return e
}

func (e *BlitEncoder) recordSource(h Handle, r ResourceRange) {
	idx := e.pass.Commands.Len()
	e.pass.AddUsage(&ResourceUsage{Handle: h, Kind: UsageBlitSource, Stages: StageBlit, Range: r, FirstCommand: idx, LastCommand: idx})
}

func (e *BlitEncoder) recordDestination(h Handle, r ResourceRange) {
	idx := e.pass.Commands.Len()
	e.pass.AddUsage(&ResourceUsage{Handle: h, Kind: UsageBlitDestination, Stages: StageBlit, Range: r, FirstCommand: idx, LastCommand: idx})
}

// CopyBufferToBuffer records a buffer-to-buffer copy.
func (e *BlitEncoder) CopyBufferToBuffer(src Handle, srcOffset uint64, dst Handle, dstOffset, size uint64) {
	e.recordSource(src, ByteRange(srcOffset, size))
	e.recordDestination(dst, ByteRange(dstOffset, size))
	e.pass.Commands.Append(CmdCopyBufferToBuffer, nil)
}

// CopyBufferToTexture records a buffer-to-texture copy.
func (e *BlitEncoder) CopyBufferToTexture(src Handle, dst Handle, subresource ResourceRange) {
	e.recordSource(src, WholeResource)
	e.recordDestination(dst, subresource)
	e.pass.Commands.Append(CmdCopyBufferToTexture, nil)
}

// CopyTextureToBuffer records a texture-to-buffer copy.
func (e *BlitEncoder) CopyTextureToBuffer(src Handle, subresource ResourceRange, dst Handle) {
	e.recordSource(src, subresource)
	e.recordDestination(dst, WholeResource)
	e.pass.Commands.Append(CmdCopyTextureToBuffer, nil)
}

// CopyTextureToTexture records a texture-to-texture copy. Both source and
// destination register with the correct subresource mask when slice and
// level are specified (spec §4.F).
func (e *BlitEncoder) CopyTextureToTexture(src Handle, srcSubresource ResourceRange, dst Handle, dstSubresource ResourceRange) {
	e.recordSource(src, srcSubresource)
	e.recordDestination(dst, dstSubresource)
	e.pass.Commands.Append(CmdCopyTextureToTexture, nil)
}

// FillBuffer records a buffer fill.
func (e *BlitEncoder) FillBuffer(dst Handle, r ResourceRange) {
	e.recordDestination(dst, r)
	e.pass.Commands.Append(CmdFillBuffer, nil)
}

// GenerateMipmaps records mipmap generation for a texture, which both reads
// the base level and writes the generated levels.
func (e *BlitEncoder) GenerateMipmaps(tex Handle) {
	e.recordSource(tex, WholeResource)
	e.recordDestination(tex, WholeResource)
	e.pass.Commands.Append(CmdGenerateMipmaps, nil)
}

// SynchroniseBuffer records an explicit synchronisation point for a buffer
// shared outside the frame graph's own dependency tracking.
func (e *BlitEncoder) SynchroniseBuffer(h Handle) {
	idx := e.pass.Commands.Len()
	e.pass.AddUsage(&ResourceUsage{Handle: h, Kind: UsageBlitSync, Stages: StageBlit, FirstCommand: idx, LastCommand: idx})
	e.pass.Commands.Append(CmdSynchroniseBuffer, nil)
}

// SynchroniseTexture records an explicit synchronisation point for a whole
// texture.
func (e *BlitEncoder) SynchroniseTexture(h Handle) {
	idx := e.pass.Commands.Len()
	e.pass.AddUsage(&ResourceUsage{Handle: h, Kind: UsageBlitSync, Stages: StageBlit, FirstCommand: idx, LastCommand: idx})
	e.pass.Commands.Append(CmdSynchroniseTexture, nil)
}

// SynchroniseTextureSlice records an explicit synchronisation point for one
// texture subresource.
func (e *BlitEncoder) SynchroniseTextureSlice(h Handle, subresource ResourceRange) {
	idx := e.pass.Commands.Len()
	e.pass.AddUsage(&ResourceUsage{Handle: h, Kind: UsageBlitSync, Stages: StageBlit, Range: subresource, FirstCommand: idx, LastCommand: idx})
	e.pass.Commands.Append(CmdSynchroniseTextureSlice, nil)
}

// EndEncoding closes the encoder.
func (e *BlitEncoder) EndEncoding() { e.BindingEncoder.EndEncoding() }
