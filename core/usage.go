// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "fmt"

// UsageKind classifies how a pass uses a resource (spec §3). The bitmask
// layout and the read/write classification helpers follow the
// BufferUses/TextureUses design in the teacher's resource-tracking package,
// generalised from "internal buffer/texture barrier state" to the frame
// graph's own usage vocabulary.
type UsageKind uint32

const (
	UsageRead UsageKind = 1 << iota
	UsageWrite
	UsageReadWrite
	UsageVertexBuffer
	UsageIndexBuffer
	UsageIndirectBuffer
	UsageBlitSource
	UsageBlitDestination
	UsageWriteOnlyRenderTarget
	UsageReadWriteRenderTarget
	UsageUnusedRenderTarget
	UsageUnusedArgumentBuffer
	UsageBlitSync
	UsageArgumentBuffer
)

// String implements fmt.Stringer.
func (k UsageKind) String() string {
	switch k {
	case UsageRead:
		return "read"
	case UsageWrite:
		return "write"
	case UsageReadWrite:
		return "readWrite"
	case UsageVertexBuffer:
		return "vertexBuffer"
	case UsageIndexBuffer:
		return "indexBuffer"
	case UsageIndirectBuffer:
		return "indirectBuffer"
	case UsageBlitSource:
		return "blitSource"
	case UsageBlitDestination:
		return "blitDestination"
	case UsageWriteOnlyRenderTarget:
		return "writeOnlyRenderTarget"
	case UsageReadWriteRenderTarget:
		return "readWriteRenderTarget"
	case UsageUnusedRenderTarget:
		return "unusedRenderTarget"
	case UsageUnusedArgumentBuffer:
		return "unusedArgumentBuffer"
	case UsageBlitSync:
		return "blitSync"
	case UsageArgumentBuffer:
		return "argumentBuffer"
	default:
		return fmt.Sprintf("UsageKind(%d)", uint32(k))
	}
}

// IsRead reports whether this usage kind includes reading the resource.
func (k UsageKind) IsRead() bool {
	const readKinds = UsageRead | UsageReadWrite | UsageVertexBuffer | UsageIndexBuffer |
		UsageIndirectBuffer | UsageBlitSource | UsageReadWriteRenderTarget | UsageBlitSync | UsageArgumentBuffer
	return k&readKinds != 0
}

// IsWrite reports whether this usage kind includes writing the resource.
func (k UsageKind) IsWrite() bool {
	const writeKinds = UsageWrite | UsageReadWrite | UsageBlitDestination |
		UsageWriteOnlyRenderTarget | UsageReadWriteRenderTarget
	return k&writeKinds != 0
}

// Promote returns the monotone upgrade of k towards a read-write render
// target classification, following the unused → writeOnly → readWrite
// promotion rule of spec §4.F. Promotion never downgrades.
func (k UsageKind) Promote(next UsageKind) UsageKind {
	rank := func(u UsageKind) int {
		switch u {
		case UsageUnusedRenderTarget:
			return 0
		case UsageWriteOnlyRenderTarget:
			return 1
		case UsageReadWriteRenderTarget:
			return 2
		default:
			return -1
		}
	}
	if rank(next) > rank(k) {
		return next
	}
	return k
}

// Stage identifies the pipeline stage(s) a usage applies to.
type Stage uint8

const (
	StageVertex Stage = 1 << iota
	StageFragment
	StageCompute
	StageBlit
	StageCPUBeforeRender
)

// RangeKind discriminates the active-resource-range union of spec §3.
type RangeKind uint8

const (
	RangeWholeResource RangeKind = iota
	RangeByteRange
	RangeTextureSubresource
)

// ResourceRange describes the active portion of a resource a usage applies
// to: the whole resource, a byte range (buffers), or a texture subresource
// mask (mip levels × array layers).
type ResourceRange struct {
	Kind RangeKind

	// Valid when Kind == RangeByteRange.
	ByteOffset uint64
	ByteLength uint64

	// Valid when Kind == RangeTextureSubresource.
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// WholeResource is the default, whole-resource range.
var WholeResource = ResourceRange{Kind: RangeWholeResource}

// ByteRange builds a buffer byte-range.
func ByteRange(offset, length uint64) ResourceRange {
	return ResourceRange{Kind: RangeByteRange, ByteOffset: offset, ByteLength: length}
}

// TextureSubresource builds a texture mip/layer range.
func TextureSubresource(baseMip, mipCount, baseLayer, layerCount uint32) ResourceRange {
	return ResourceRange{
		Kind:            RangeTextureSubresource,
		BaseMipLevel:    baseMip,
		MipLevelCount:   mipCount,
		BaseArrayLayer:  baseLayer,
		ArrayLayerCount: layerCount,
	}
}

// ResourceUsage is one (resource, pass) usage record (spec §3). Handle
// identifies the resource; Pass is filled in once the usage is attached to
// a PassRecord. FirstCommand/LastCommand are indices local to the owning
// pass at record time; the compiler rewrites them to global command indices
// in phase 8 (spec §4.H).
type ResourceUsage struct {
	Handle           Handle
	Kind             UsageKind
	Stages           Stage
	Range            ResourceRange
	InArgumentBuffer bool

	FirstCommand int
	LastCommand  int

	Pass *PassRecord
}
