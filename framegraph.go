// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"context"
	"sync"
	"time"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/core"
	"github.com/gogpu/framegraph/internal/job"
	"github.com/gogpu/framegraph/internal/logctx"
)

// executingMu is the process-wide "only one executing" mutex spec §4.I
// calls for: only one FrameGraph's Execute runs its compile/submit sequence
// at a time across the whole process, even if the caller holds several
// FrameGraph instances.
var executingMu sync.Mutex

var nextGraphID uint32

// Options configures a FrameGraph at construction (spec §4.I "Configuration
// options").
type Options struct {
	// InflightFrameCount bounds how many frames may be executing on the
	// backend concurrently. Defaults to 1.
	InflightFrameCount int

	// TransientBufferCapacity/TextureCapacity/ArgBufferArrayCapacity are
	// accepted but not read by New: the transient registries are not
	// pre-sized and always grow on demand.
	TransientBufferCapacity         int
	TransientTextureCapacity        int
	TransientArgBufferArrayCapacity int

	// JobConcurrency bounds how many passes the compiler records in
	// parallel during phase 2. Zero means unbounded.
	JobConcurrency int
}

// FrameGraph is the public orchestrator (spec §4.I). One instance is
// typically kept alive for the life of a renderer; AddPass/Execute are
// called once per frame.
type FrameGraph struct {
	graphID uint8
	backend backend.Backend

	persistent *core.PersistentRegistries
	transient  *core.TransientRegistries
	compiler   *core.Compiler

	inflightSem chan struct{}

	passesMu sync.Mutex
	passes   []*core.PassRecord

	onSubmission    []func()
	onGPUCompletion []func()

	lastRenderDuration time.Duration
	lastGPUTime        time.Duration

	submissionIndex uint64
}

// New creates a FrameGraph driving be, with persistent and transient
// resource registries of its own.
func New(be backend.Backend, opts Options) *FrameGraph {
	if opts.InflightFrameCount <= 0 {
		opts.InflightFrameCount = 1
	}
	graphID := uint8(nextGraphID % uint32(core.MaxTransientGraphs))
	nextGraphID++

	return &FrameGraph{
		graphID:     graphID,
		backend:     be,
		persistent:  core.NewPersistentRegistries(),
		transient:   core.NewTransientRegistries(graphID),
		compiler:    core.NewCompiler(job.NewPool(opts.JobConcurrency)),
		inflightSem: make(chan struct{}, opts.InflightFrameCount),
	}
}

// Persistent exposes the persistent resource registries for resource
// constructors in resource.go.
func (fg *FrameGraph) Persistent() *core.PersistentRegistries { return fg.persistent }

// Transient exposes the transient resource registries, valid only for the
// duration of the frame currently being recorded.
func (fg *FrameGraph) Transient() *core.TransientRegistries { return fg.transient }

// GraphID returns the frame-graph identifier packed into every transient
// handle this instance issues.
func (fg *FrameGraph) GraphID() uint8 { return fg.graphID }

// addPass appends a constructed pass record to the pending queue.
func (fg *FrameGraph) addPass(p *core.PassRecord) *core.PassRecord {
	fg.passesMu.Lock()
	defer fg.passesMu.Unlock()
	p.Index = len(fg.passes)
	fg.passes = append(fg.passes, p)
	return p
}

// InsertEarlyBlitPass prepends a blit pass ahead of every other queued
// pass, for uploads that must happen before the frame's own passes run
// (spec §4.I "insert_early_blit_pass").
func (fg *FrameGraph) InsertEarlyBlitPass(name string, record func(*core.BlitEncoder)) *core.PassRecord {
	p := core.NewPassRecord(0, core.PassBlit, name, core.NewCommandStream(256))
	p.RecordFn = func() {
		e := core.NewBlitEncoder(p, fg.persistent, fg.transient)
		record(e)
		e.EndEncoding()
	}
	fg.passesMu.Lock()
	defer fg.passesMu.Unlock()
	fg.passes = append([]*core.PassRecord{p}, fg.passes...)
	for i, pass := range fg.passes {
		pass.Index = i
	}
	return p
}

// OnSubmission registers a callback fired once the compiled plan has been
// handed to the backend for this frame.
func (fg *FrameGraph) OnSubmission(cb func()) { fg.onSubmission = append(fg.onSubmission, cb) }

// OnGPUCompletion registers a callback fired once the backend reports the
// submitted GPU work has finished.
func (fg *FrameGraph) OnGPUCompletion(cb func()) { fg.onGPUCompletion = append(fg.onGPUCompletion, cb) }

// HasEnqueuedPasses reports whether any pass is waiting for the next
// Execute.
func (fg *FrameGraph) HasEnqueuedPasses() bool {
	fg.passesMu.Lock()
	defer fg.passesMu.Unlock()
	return len(fg.passes) > 0
}

// Queue returns the submission index that will be assigned to the next
// Execute call.
func (fg *FrameGraph) Queue() uint64 { return fg.submissionIndex }

// LastFrameRenderDuration reports CPU-side compile+submit time for the most
// recently executed frame.
func (fg *FrameGraph) LastFrameRenderDuration() time.Duration { return fg.lastRenderDuration }

// LastFrameGPUTime reports the GPU-side elapsed time the backend reported
// for the most recently completed frame.
func (fg *FrameGraph) LastFrameGPUTime() time.Duration { return fg.lastGPUTime }

// Execute compiles every pass queued since the last call and submits the
// resulting plan to the backend (spec §4.I). An empty plan short-circuits:
// submission and completion callbacks fire immediately with a zero duration
// (spec §7 "Empty active plan — success").
func (fg *FrameGraph) Execute(ctx context.Context) error {
	executingMu.Lock()
	defer executingMu.Unlock()

	select {
	case fg.inflightSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	fg.transient.Reset()

	fg.passesMu.Lock()
	passes := fg.passes
	fg.passes = nil
	fg.passesMu.Unlock()

	start := time.Now()

	if err := fg.backend.BeginFrameResourceAccess(ctx); err != nil {
		<-fg.inflightSem
		return err
	}

	plan, err := fg.compiler.Compile(ctx, passes)
	if err != nil {
		<-fg.inflightSem
		return err
	}

	fg.lastRenderDuration = time.Since(start)
	fg.submissionIndex++

	if len(plan.ActivePasses) == 0 {
		fg.lastGPUTime = 0
		fg.fireSubmission()
		fg.fireCompletion()
		<-fg.inflightSem
		return nil
	}

	onComplete := func(gpuSeconds float64) {
		fg.lastGPUTime = time.Duration(gpuSeconds * float64(time.Second))
		fg.fireCompletion()
		<-fg.inflightSem
	}

	if err := fg.backend.ExecuteFrameGraph(ctx, plan, onComplete); err != nil {
		logctx.Logger().Error("frame graph execution failed", "error", err)
		<-fg.inflightSem
		return err
	}
	fg.fireSubmission()
	return nil
}

func (fg *FrameGraph) fireSubmission() {
	for _, cb := range fg.onSubmission {
		cb()
	}
}

func (fg *FrameGraph) fireCompletion() {
	for _, cb := range fg.onGPUCompletion {
		cb()
	}
}
