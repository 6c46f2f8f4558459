// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import (
	"context"

	"github.com/gogpu/framegraph/internal/job"
)

// DependencyKind classifies one entry of the compiled dependency table
// (spec §4.H phase 3).
type DependencyKind uint8

const (
	DepNone DependencyKind = iota
	// DepOrdering means the two passes must execute in relative order but
	// share no direct data dependency (e.g. two writers of the same
	// resource where neither reads the other's output).
	DepOrdering
	// DepExecution means one pass reads a resource the other wrote.
	DepExecution
)

// DependencyTable records, for every ordered pass pair (j, i) with j>i, the
// strongest dependency kind found between them (spec §4.H phase 3).
type DependencyTable struct {
	edges map[[2]int]DependencyKind
}

func newDependencyTable() *DependencyTable {
	return &DependencyTable{edges: make(map[[2]int]DependencyKind)}
}

// Kind reports the dependency kind pass j has on pass i (j must depend on a
// strictly earlier pass i).
func (t *DependencyTable) Kind(j, i int) DependencyKind {
	return t.edges[[2]int{j, i}]
}

func (t *DependencyTable) set(j, i int, kind DependencyKind) {
	key := [2]int{j, i}
	if t.edges[key] == DepExecution {
		return
	}
	t.edges[key] = kind
}

// DependenciesOf returns every pass index i that pass j directly depends on,
// in ascending i order. The dependency kinds are not returned.
func (t *DependencyTable) DependenciesOf(j int) []int {
	var deps []int
	for key := range t.edges {
		if key[0] == j {
			deps = append(deps, key[1])
		}
	}
	for i := 1; i < len(deps); i++ {
		for k := i; k > 0 && deps[k-1] > deps[k]; k-- {
			deps[k-1], deps[k] = deps[k], deps[k-1]
		}
	}
	return deps
}

// restrictTo returns a new table containing only edges between indices in
// keep.
func (t *DependencyTable) restrictTo(keep map[int]bool) *DependencyTable {
	out := newDependencyTable()
	for key, kind := range t.edges {
		if keep[key[0]] && keep[key[1]] {
			out.edges[key] = kind
		}
	}
	return out
}

// CompiledPlan is the output of Compile: the plan the orchestrator hands to
// a backend (spec §4.H, §6 "Plan handed to the backend").
type CompiledPlan struct {
	ActivePasses []*PassRecord
	Dependencies *DependencyTable
	UsedResources []Handle
}

// Compiler turns a batch of recorded/declared passes into a CompiledPlan
// (spec §4.H). One Compiler is constructed per FrameGraph execution.
type Compiler struct {
	pool *job.Pool
}

// NewCompiler creates a compiler whose phase-2 parallel recording uses pool.
// A nil pool puts no limit on concurrency: the phase-2 eager recordings
// still run concurrently.
func NewCompiler(pool *job.Pool) *Compiler {
	return &Compiler{pool: pool}
}

// Compile runs phases 1–8 of spec §4.H against passes, which must be in
// insertion order (with any early-inserted blit passes already prepended).
func (c *Compiler) Compile(ctx context.Context, passes []*PassRecord) (*CompiledPlan, error) {
	// Phase 1: reindex.
	for i, p := range passes {
		p.Index = i
	}

	// Phase 2: evaluate usages.
	if err := c.evaluateUsages(ctx, passes); err != nil {
		return nil, err
	}

	// Phase 3: dependency table + side-effect/window marking.
	table, writerOf := buildDependencyTable(passes)
	markSideEffects(passes, writerOf)

	// Phase 4: activity marking (reverse reachability).
	markActive(passes, table)

	// Phase 5: ordering.
	ordered := computeDependencyOrdering(passes, table)

	// Phase 6: materialise any still-deferred active passes; drop CPU and
	// empty passes from the active list.
	ordered = materialiseDeferred(ordered)

	// Phase 7: restrict the dependency table to the surviving active passes.
	keep := make(map[int]bool, len(ordered))
	for _, p := range ordered {
		keep[p.Index] = true
	}
	restricted := table.restrictTo(keep)

	// Phase 8: global command indexing + per-resource usage aggregation.
	used := reindexCommandsAndUsages(ordered)

	return &CompiledPlan{ActivePasses: ordered, Dependencies: restricted, UsedResources: used}, nil
}

func (c *Compiler) evaluateUsages(ctx context.Context, passes []*PassRecord) error {
	var jobs []func(context.Context) error
	for _, p := range passes {
		p := p
		if p.RecordFn == nil || p.recorded {
			continue
		}
		if len(p.DeclaredWrites) == 0 {
			if p.Kind == PassCPU {
				p.RecordFn()
				p.recorded = true
				continue
			}
			jobs = append(jobs, func(context.Context) error {
				p.RecordFn()
				p.recorded = true
				return nil
			})
			continue
		}
		p.Reads = append(p.Reads, p.DeclaredReads...)
		p.Writes = append(p.Writes, p.DeclaredWrites...)
	}
	return c.pool.RunAll(ctx, jobs)
}

func buildDependencyTable(passes []*PassRecord) (*DependencyTable, map[Handle]int) {
	table := newDependencyTable()
	writerOf := make(map[Handle]int)

	for i, pi := range passes {
		for _, r := range pi.Writes {
			for j := i + 1; j < len(passes); j++ {
				pj := passes[j]
				if containsHandle(pj.Reads, r) {
					table.set(j, i, DepExecution)
				} else if containsHandle(pj.Writes, r) {
					table.set(j, i, DepOrdering)
				}
			}
			writerOf[r] = i
		}
	}
	return table, writerOf
}

func markSideEffects(passes []*PassRecord, writerOf map[Handle]int) {
	for _, p := range passes {
		for _, w := range p.Writes {
			if w.Flags().HasSideEffectFlags() {
				p.HasSideEffects = true
			}
			if w.Flags()&FlagWindowHandle != 0 {
				p.UsesWindowTarget = true
			}
		}
	}
}

func markActive(passes []*PassRecord, table *DependencyTable) {
	var activate func(i int)
	activate = func(i int) {
		if passes[i].IsActive {
			return
		}
		passes[i].IsActive = true
		for j := i - 1; j >= 0; j-- {
			if table.Kind(i, j) == DepExecution {
				activate(j)
			}
		}
	}
	for i := len(passes) - 1; i >= 0; i-- {
		if passes[i].HasSideEffects {
			activate(i)
		}
	}
}

func computeDependencyOrdering(passes []*PassRecord, table *DependencyTable) []*PassRecord {
	var ordered []*PassRecord
	visited := make(map[int]bool)

	var visit func(i int)
	visit = func(i int) {
		if visited[i] || !passes[i].IsActive {
			return
		}
		visited[i] = true

		deps := table.DependenciesOf(i)
		var unmergeable, mergeable []int
		for _, j := range deps {
			if !passes[j].IsActive {
				continue
			}
			if passRenderTargetsMergeable(passes[i], passes[j]) {
				mergeable = append(mergeable, j)
			} else {
				unmergeable = append(unmergeable, j)
			}
		}
		for _, j := range unmergeable {
			visit(j)
		}
		for _, j := range mergeable {
			visit(j)
		}
		ordered = append(ordered, passes[i])
	}

	for i := range passes {
		if passes[i].IsActive {
			visit(i)
		}
	}
	return ordered
}

// passRenderTargetsMergeable compares two draw passes' render targets using
// attachment identity rather than a full RenderTargetsMergeable format/size
// lookup: the compiler does not have registry resolvers in scope at
// ordering time, and two passes sharing the literal same transient texture
// handle necessarily share its format, sample count, and size. A resource
// with distinct handles but compatible formats (e.g. two differently-sized
// transient color targets of the same format) is intentionally treated as
// non-mergeable here — RenderTargetsMergeable remains available for a
// backend or test that does have resolvers handy.
func passRenderTargetsMergeable(a, b *PassRecord) bool {
	if a.Kind != PassDraw || b.Kind != PassDraw || a.RenderTarget == nil || b.RenderTarget == nil {
		return false
	}
	return mergeableFallback(a.RenderTarget, b.RenderTarget)
}

func mergeableFallback(a, b *RenderTargetDescriptor) bool {
	if a.ColorCount != b.ColorCount {
		return false
	}
	for i := 0; i < a.ColorCount; i++ {
		if a.ColorAttachment[i].Texture != b.ColorAttachment[i].Texture {
			return false
		}
		if a.ColorAttachment[i].LoadOp != b.ColorAttachment[i].LoadOp {
			return false
		}
	}
	if (a.DepthStencil == nil) != (b.DepthStencil == nil) {
		return false
	}
	if a.DepthStencil != nil && a.DepthStencil.Texture != b.DepthStencil.Texture {
		return false
	}
	return true
}

func materialiseDeferred(active []*PassRecord) []*PassRecord {
	out := active[:0]
	for _, p := range active {
		if p.RecordFn != nil && !p.recorded {
			p.RecordFn()
			p.recorded = true
		}
		if p.Kind == PassCPU || p.Commands.Len() == 0 {
			p.IsActive = false
			continue
		}
		out = append(out, p)
	}
	return out
}

func reindexCommandsAndUsages(ordered []*PassRecord) []Handle {
	seen := make(map[Handle]bool)
	var used []Handle

	start := 0
	for _, p := range ordered {
		n := p.Commands.Len()
		p.FirstCommand = start
		p.LastCommand = start + n
		for _, u := range p.Usages {
			u.FirstCommand += start
			u.LastCommand += start
			if !seen[u.Handle] {
				seen[u.Handle] = true
				used = append(used, u.Handle)
			}
		}
		start += n
	}
	return used
}
