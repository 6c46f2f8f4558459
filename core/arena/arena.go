// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package arena implements a tagged bump allocator for per-frame scratch
// storage. No other package of the module imports it: recorded commands,
// pending bindings, usage nodes and the compiler's working state are
// ordinary Go heap values. Allocating
// from an Arena never touches the Go heap allocator on the hot path once a
// Chunk has spare capacity; freeing a Tag drops every Chunk registered under
// it in one step instead of freeing values individually (spec §4.B).
//
// The design generalises the teacher's chunked, stable-pointer growth
// strategy in its resource storage, combined with its dedicated-thread
// ownership model: a ThreadView gives each recording goroutine its own
// current Chunk so concurrent passes never contend on a single bump
// pointer, while FreeTag reclaims everything at once at a lifecycle
// boundary (end of pass recording, end of compilation, end of execution).
package arena

import "sync"

// defaultChunkBytes is the size of a freshly grown Chunk. Spec.md suggests
// 64KiB–256KiB chunks; 128KiB is a reasonable middle ground for command and
// usage-node traffic in a single pass.
const defaultChunkBytes = 128 * 1024

// Tag names one lifecycle scope: every allocation made against a Tag is
// freed together when that scope ends. The orchestrator (FrameGraph.Execute)
// creates no Tags and sets up no per-frame arenas.
type Tag uint32

// Chunk is one contiguous block of bump-allocated bytes. Once created a
// Chunk's backing array is never moved, so a pointer obtained from Alloc
// remains valid until the owning Tag is freed.
type Chunk struct {
	buf    []byte
	offset int
}

func newChunk(size int) *Chunk {
	return &Chunk{buf: make([]byte, size)}
}

// alloc reserves n bytes aligned to align (a power of two) from c, returning
// the byte slice and whether the chunk had room.
func (c *Chunk) alloc(n, align int) ([]byte, bool) {
	aligned := (c.offset + align - 1) &^ (align - 1)
	if aligned+n > len(c.buf) {
		return nil, false
	}
	c.offset = aligned + n
	return c.buf[aligned : aligned+n : aligned+n], true
}

func (c *Chunk) reset() {
	clear(c.buf[:c.offset])
	c.offset = 0
}

// tagState holds the chunks registered under one Tag, indexed by the
// ThreadView that owns each chunk's bump pointer.
type tagState struct {
	chunks []*Chunk
}

// Arena owns every Tag's chunks. It is safe for concurrent use: Tag
// creation, ThreadView creation, and FreeTag all take a shared lock; Alloc
// takes it briefly to look up and install the view's chunk, and bumps the
// chunk's offset outside it.
type Arena struct {
	mu         sync.Mutex
	tags       map[Tag]*tagState
	chunkBytes int
	nextTag    Tag
}

// New creates an empty Arena. chunkBytes overrides the default chunk size
// when non-zero, mainly for tests that want to exercise chunk growth.
func New(chunkBytes int) *Arena {
	if chunkBytes <= 0 {
		chunkBytes = defaultChunkBytes
	}
	return &Arena{tags: make(map[Tag]*tagState), chunkBytes: chunkBytes}
}

// NewTag allocates a fresh Tag with no chunks yet.
func (a *Arena) NewTag() Tag {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextTag++
	t := a.nextTag
	a.tags[t] = &tagState{}
	return t
}

// FreeTag drops every chunk registered under tag, making its memory
// available for the garbage collector and invalidating every ThreadView and
// pointer obtained against it. Allocating against a freed Tag is a
// programmer error and panics.
func (a *Arena) FreeTag(tag Tag) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.tags, tag)
}

// ThreadView gives one goroutine a private bump pointer into tag's chunk
// set, identified by threadIndex so the same goroutine reconnecting to the
// same tag (e.g. across retries) reuses its own chunk rather than starting a
// fresh one. Two ThreadViews for the same tag never share a Chunk, so
// concurrent recording across passes never contends on a bump pointer.
func (a *Arena) ThreadView(tag Tag, threadIndex int) *ThreadView {
	a.mu.Lock()
	state, ok := a.tags[tag]
	if !ok {
		a.mu.Unlock()
		panic("arena: ThreadView requested for a freed or unknown tag")
	}
	for len(state.chunks) <= threadIndex {
		state.chunks = append(state.chunks, nil)
	}
	a.mu.Unlock()
	return &ThreadView{arena: a, tag: tag, threadIndex: threadIndex}
}

// ThreadView is a per-goroutine allocation cursor into one Tag's chunk set.
// It is not safe for concurrent use by multiple goroutines; obtain one
// ThreadView per recording goroutine.
type ThreadView struct {
	arena       *Arena
	tag         Tag
	threadIndex int
}

// Alloc reserves n bytes aligned to align (must be a power of two; 1 if
// unspecified) and returns them zeroed. It grows a new Chunk from the owning
// Arena when the current one has no room; n larger than the Arena's chunk
// size gets its own oversized Chunk.
func (v *ThreadView) Alloc(n, align int) []byte {
	if align <= 0 {
		align = 1
	}
	v.arena.mu.Lock()
	state := v.arena.tags[v.tag]
	if state == nil {
		v.arena.mu.Unlock()
		panic("arena: Alloc against a freed tag")
	}
	chunk := state.chunks[v.threadIndex]
	chunkBytes := v.arena.chunkBytes
	v.arena.mu.Unlock()

	if chunk != nil {
		if b, ok := chunk.alloc(n, align); ok {
			return b
		}
	}

	size := chunkBytes
	if n+align > size {
		size = n + align
	}
	chunk = newChunk(size)
	b, ok := chunk.alloc(n, align)
	if !ok {
		panic("arena: freshly grown chunk cannot satisfy its own allocation")
	}

	v.arena.mu.Lock()
	state = v.arena.tags[v.tag]
	if state == nil {
		v.arena.mu.Unlock()
		panic("arena: Alloc against a freed tag")
	}
	state.chunks[v.threadIndex] = chunk
	v.arena.mu.Unlock()
	return b
}

// Reset rewinds this view's current chunk back to empty (zeroing the bytes
// it had handed out) without releasing its backing memory; other views'
// chunks under the same tag are left as they are. It serves reuse across frames within a
// long-lived Tag (pools that outlive a single FreeTag/NewTag cycle).
func (v *ThreadView) Reset() {
	v.arena.mu.Lock()
	defer v.arena.mu.Unlock()
	state := v.arena.tags[v.tag]
	if state == nil {
		return
	}
	if c := state.chunks[v.threadIndex]; c != nil {
		c.reset()
	}
}
