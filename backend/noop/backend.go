// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package noop

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/core"
	"github.com/gogpu/framegraph/internal/thread"
	"github.com/gogpu/framegraph/types"
)

// Backend is a reference backend.Backend that records what would have
// happened without talking to a GPU, mirroring the teacher's hal/noop
// device: every call succeeds, buffers and textures are backed by plain Go
// slices. ExecuteFrameGraph hands its completion callback to a dedicated
// completion thread, so callers observe the same "onComplete fires off the
// calling goroutine" behaviour a real backend's present-queue callback would
// give them (spec §6 "onComplete ... from a backend-owned thread").
type Backend struct {
	mu sync.Mutex

	nextObjectID  uint64
	buffers       map[uint64][]byte
	textures      map[uint64]types.TextureDescriptor
	windowTexture uint64

	executedFrames atomic.Int64

	completionThread *thread.Thread
}

// New creates an empty noop backend.
func New() *Backend {
	return &Backend{
		buffers:          make(map[uint64][]byte),
		textures:         make(map[uint64]types.TextureDescriptor),
		completionThread: thread.New(),
	}
}

// Close stops the backend's completion thread. Safe to call once after the
// backend is no longer in use.
func (b *Backend) Close() { b.completionThread.Stop() }

// ExecutedFrames reports how many times ExecuteFrameGraph has completed,
// for test assertions.
func (b *Backend) ExecutedFrames() int64 { return b.executedFrames.Load() }

func (b *Backend) allocID() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextObjectID++
	return b.nextObjectID
}

// BeginFrameResourceAccess is a no-op for the reference backend.
func (b *Backend) BeginFrameResourceAccess(ctx context.Context) error { return nil }

// ExecuteFrameGraph walks the compiled plan just enough to prove the shape
// is consumable, then hands onComplete, with a zero GPU time, to the
// completion thread via CallAsync instead of calling it inline.
func (b *Backend) ExecuteFrameGraph(ctx context.Context, plan *core.CompiledPlan, onComplete func(gpuSeconds float64)) error {
	for _, pass := range plan.ActivePasses {
		for _, cmd := range pass.Commands.All() {
			_ = cmd.Tag
		}
	}
	b.executedFrames.Add(1)
	if onComplete != nil {
		b.completionThread.CallAsync(func() { onComplete(0) })
	}
	return nil
}

// RenderPipelineReflection ignores the descriptor and returns an empty
// static reflection — see reflection.go for the naga-backed fixture variant.
func (b *Backend) RenderPipelineReflection(desc backend.RenderPipelineDescriptor, rt core.RenderTargetDescriptor) (backend.Reflection, error) {
	return newStaticReflection(nil), nil
}

// ComputePipelineReflection returns an empty static reflection.
func (b *Backend) ComputePipelineReflection(desc backend.ComputePipelineDescriptor) (backend.Reflection, error) {
	return newStaticReflection(nil), nil
}

// ArgumentBufferPath returns a synthetic path identifying (setIndex, stages).
func (b *Backend) ArgumentBufferPath(setIndex int, stages core.Stage) (any, error) {
	return bindingPath{name: "argbuf", setIndex: setIndex, stages: stages}, nil
}

// ThreadExecutionWidth reports a conventional SIMD width for testing.
func (b *Backend) ThreadExecutionWidth() uint32 { return 32 }

// MaterialisePersistentBuffer backs desc with a plain byte slice.
func (b *Backend) MaterialisePersistentBuffer(desc types.BufferDescriptor) (any, error) {
	id := b.allocID()
	b.mu.Lock()
	b.buffers[id] = make([]byte, desc.Size)
	b.mu.Unlock()
	return id, nil
}

// MaterialisePersistentTexture records desc under a fresh object id.
func (b *Backend) MaterialisePersistentTexture(desc types.TextureDescriptor) (any, error) {
	id := b.allocID()
	b.mu.Lock()
	b.textures[id] = desc
	b.mu.Unlock()
	return id, nil
}

// ReplaceTextureRegion is a no-op: the reference backend does not track
// texture contents, only descriptors.
func (b *Backend) ReplaceTextureRegion(texture any, region core.ResourceRange, data []byte) error {
	return nil
}

// BufferContents returns the backing slice for the given buffer id and
// byte range.
func (b *Backend) BufferContents(buffer any, r core.ResourceRange) ([]byte, error) {
	id, ok := buffer.(uint64)
	if !ok {
		return nil, backend.ErrUnsupported
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.buffers[id]
	if !ok {
		return nil, backend.ErrUnsupported
	}
	if r.Kind != core.RangeByteRange {
		return buf, nil
	}
	end := r.ByteOffset + r.ByteLength
	if end > uint64(len(buf)) {
		end = uint64(len(buf))
	}
	return buf[r.ByteOffset:end], nil
}

// BufferDidModifyRange is a no-op for the reference backend: writes through
// BufferContents are already visible.
func (b *Backend) BufferDidModifyRange(buffer any, r core.ResourceRange) error { return nil }

// RegisterWindowTexture records texture as the window target.
func (b *Backend) RegisterWindowTexture(texture any, nativeWindow any) error {
	id, ok := texture.(uint64)
	if !ok {
		return backend.ErrUnsupported
	}
	b.mu.Lock()
	b.windowTexture = id
	b.mu.Unlock()
	return nil
}

type bindingPath struct {
	name       string
	arrayIndex int
	setIndex   int
	stages     core.Stage
}
