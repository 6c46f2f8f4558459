// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/core"
)

// BindingFixture describes one WGSL-declared binding for WGSLReflection:
// the argument name a BindingEncoder key resolves against, and the usage
// kind/stages the pipeline applies to it. This is supplied by the test (or
// example) alongside the WGSL source, since deriving full binding metadata
// from compiled SPIR-V is out of the core's scope (spec §6.2) — naga.Compile
// is exercised here only to prove the WGSL is well-formed before the fixture
// table is built from it.
type BindingFixture struct {
	Name   string
	Kind   core.PendingBindingKind
	Usage  core.UsageKind
	Stages core.Stage
}

// WGSLReflection compiles wgslSource with naga to validate it, then builds a
// static Reflection from fixtures, keyed by argument name (spec §6.2).
func WGSLReflection(wgslSource string, fixtures []BindingFixture) (backend.Reflection, error) {
	if _, err := naga.Compile(wgslSource); err != nil {
		return nil, fmt.Errorf("noop: invalid WGSL reflection fixture: %w", err)
	}
	return newStaticReflection(fixtures), nil
}

// staticReflection is a fixed name->path table, used both as the naga-backed
// test fixture and as the trivial Reflection the reference Backend returns
// when no fixture is supplied.
type staticReflection struct {
	byName map[string]backend.ArgumentInfo
}

func newStaticReflection(fixtures []BindingFixture) *staticReflection {
	r := &staticReflection{byName: make(map[string]backend.ArgumentInfo, len(fixtures))}
	for _, f := range fixtures {
		path := bindingPath{name: f.Name}
		r.byName[f.Name] = backend.ArgumentInfo{
			Path: path, Kind: f.Kind, Usage: f.Usage, Stages: f.Stages, IsActive: true,
		}
	}
	return r
}

// ResolveBinding implements core.PipelineReflection.
func (r *staticReflection) ResolveBinding(key string, arrayIndex int) (any, bool, core.UsageKind, core.Stage, bool) {
	info, ok := r.byName[key]
	if !ok {
		return nil, false, 0, 0, false
	}
	return info.Path, info.IsActive, info.Usage, info.Stages, true
}

// ResolveArgumentBufferPath implements core.PipelineReflection.
func (r *staticReflection) ResolveArgumentBufferPath(key string) (any, bool) {
	info, ok := r.byName[key]
	if !ok {
		return nil, false
	}
	return info.Path, true
}

// RemapForActiveStages implements core.PipelineReflection.
func (r *staticReflection) RemapForActiveStages(path any) any { return path }

// ExecutionWidth implements core.PipelineReflection.
func (r *staticReflection) ExecutionWidth() uint32 { return 32 }

// BindingIsActive implements backend.Reflection.
func (r *staticReflection) BindingIsActive(path any) bool {
	for _, info := range r.byName {
		if info.Path == path {
			return info.IsActive
		}
	}
	return false
}

// ArgumentReflection implements backend.Reflection.
func (r *staticReflection) ArgumentReflection(path any) (backend.ArgumentInfo, bool) {
	for _, info := range r.byName {
		if info.Path == path {
			return info, true
		}
	}
	return backend.ArgumentInfo{}, false
}

// ArgumentBufferEncoder implements backend.Reflection. The reference
// backend has no real encoder object to hand back.
func (r *staticReflection) ArgumentBufferEncoder(path any) any { return nil }

// RebindInArgumentBuffer implements backend.Reflection.
func (r *staticReflection) RebindInArgumentBuffer(original any, newArgBufferPath any) any {
	return original
}
