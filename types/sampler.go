// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// FilterMode describes how a sampler filters between texels.
type FilterMode uint8

const (
	// FilterModeNearest selects the nearest texel.
	FilterModeNearest FilterMode = iota
	// FilterModeLinear interpolates between texels.
	FilterModeLinear
)

// AddressMode describes how a sampler handles texture coordinates outside
// the [0, 1) range.
type AddressMode uint8

const (
	// AddressModeClampToEdge clamps to the edge texel.
	AddressModeClampToEdge AddressMode = iota
	// AddressModeRepeat repeats the texture.
	AddressModeRepeat
	// AddressModeMirrorRepeat repeats the texture, mirrored every other repeat.
	AddressModeMirrorRepeat
)

// CompareFunction describes a depth/stencil or sampler comparison.
type CompareFunction uint8

const (
	// CompareFunctionUndefined disables comparison sampling.
	CompareFunctionUndefined CompareFunction = iota
	CompareFunctionNever
	CompareFunctionLess
	CompareFunctionEqual
	CompareFunctionLessEqual
	CompareFunctionGreater
	CompareFunctionNotEqual
	CompareFunctionGreaterEqual
	CompareFunctionAlways
)

// SamplerDescriptor describes a texture sampler.
type SamplerDescriptor struct {
	// Label is a debug label.
	Label string
	// AddressModeU/V/W control wrapping per axis.
	AddressModeU AddressMode
	AddressModeV AddressMode
	AddressModeW AddressMode
	// MagFilter/MinFilter select magnification/minification filtering.
	MagFilter FilterMode
	MinFilter FilterMode
	// MipmapFilter selects filtering between mip levels.
	MipmapFilter FilterMode
	LODMinClamp  float32
	LODMaxClamp  float32
	// Compare, when not CompareFunctionUndefined, makes this a comparison
	// sampler.
	Compare       CompareFunction
	MaxAnisotropy uint16
}
