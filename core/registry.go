// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "sync"

// Registry is a chunked, generation-tracked store of resource records,
// generalising the teacher's Hub/Storage/IdentityManager trio (spec §4.A):
// a persistent registry recycles disposed indices through a free list and
// bumps the generation on reuse, matching the index+epoch validation in the
// teacher's core/track IdentityManager; a transient registry never frees
// individual slots mid-frame and instead resets in bulk at Reset, tagging
// every live handle with the current frame's low bits so a handle captured
// in one frame is never mistaken for a same-indexed resource in another.
//
// chunks grows only by appending a new *resourceChunk[D]; once appended a
// chunk is never moved or reallocated, so a caller holding a chunk pointer
// may read and write its fields without additional synchronisation so long
// as only one logical writer touches a given slot at a time (spec §4.A).
// mu guards chunk-slice growth and free-list/index bookkeeping only.
type Registry[D any] struct {
	mu         sync.RWMutex
	kind       ResourceKind
	persistent bool
	graphID    uint8
	frameTag   uint8

	chunks    []*resourceChunk[D]
	free      []uint32
	nextIndex uint32
}

// NewPersistentRegistry creates a registry for long-lived resources whose
// handles remain valid across frames until explicitly disposed.
func NewPersistentRegistry[D any](kind ResourceKind) *Registry[D] {
	return &Registry[D]{kind: kind, persistent: true}
}

// NewTransientRegistry creates a registry for resources scoped to a single
// frame-graph execution. graphID distinguishes concurrently-active
// FrameGraph instances so their transient handles can never alias (spec
// §4.A); it is packed into every handle this registry issues.
func NewTransientRegistry[D any](kind ResourceKind, graphID uint8) *Registry[D] {
	return &Registry[D]{kind: kind, persistent: false, graphID: graphID}
}

// Kind reports the resource kind this registry stores.
func (r *Registry[D]) Kind() ResourceKind { return r.kind }

func chunkIndices(index uint32) (chunk, within uint32) {
	return index / ChunkSize, index % ChunkSize
}

// ensureChunk grows r.chunks so that index falls within it. Caller must hold
// the write lock.
func (r *Registry[D]) ensureChunk(index uint32) *resourceChunk[D] {
	chunkIdx, _ := chunkIndices(index)
	for uint32(len(r.chunks)) <= chunkIdx {
		r.chunks = append(r.chunks, newResourceChunk[D]())
	}
	return r.chunks[chunkIdx]
}

// chunkFor returns the chunk holding index, or false if it has never been
// allocated into.
func (r *Registry[D]) chunkFor(index uint32) (*resourceChunk[D], uint32, bool) {
	chunkIdx, within := chunkIndices(index)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if chunkIdx >= uint32(len(r.chunks)) {
		return nil, 0, false
	}
	return r.chunks[chunkIdx], within, true
}

// Allocate reserves a new slot and returns its handle. Persistent registries
// reuse the most recently freed index first, bumping its generation; transient
// registries always grow monotonically within a frame (Reset is what makes
// indices available again, not individual disposal).
func (r *Registry[D]) Allocate(desc D, label string, flags HandleFlags) (Handle, error) {
	r.mu.Lock()

	var index uint32
	var gen uint8
	if r.persistent && len(r.free) > 0 {
		index = r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
		c := r.ensureChunk(index)
		_, within := chunkIndices(index)
		gen = c.generations[within] + 1
	} else {
		if r.nextIndex > MaxRegistryIndex {
			r.mu.Unlock()
			return 0, ErrRegistryFull
		}
		index = r.nextIndex
		r.nextIndex++
		gen = r.frameTag
		if r.persistent {
			gen = 1
		}
	}
	c := r.ensureChunk(index)
	r.mu.Unlock()

	_, within := chunkIndices(index)
	c.descriptors[within] = desc
	c.labels[within] = label
	c.generations[within] = gen
	c.flags[within] = flags
	c.state[within] = 0
	c.usages[within] = nil
	c.readWait[within] = 0
	c.writeWait[within] = 0
	c.encoder[within].Store(nil)
	c.live[within] = true

	if r.persistent {
		return NewPersistentHandle(r.kind, index, gen, flags), nil
	}
	return NewTransientHandle(r.kind, index, r.graphID, gen, flags), nil
}

// Dispose releases a persistent handle's slot for reuse. It is idempotent:
// disposing an already-disposed or stale handle is a silent no-op rather
// than an error, since a caller cannot always tell whether a prior dispose
// already ran (spec §4.A). Disposing a transient handle is a contract
// violation — transient resources only ever go away via Reset.
func (r *Registry[D]) Dispose(h Handle) error {
	if !h.IsPersistent() {
		violate("Dispose", "transient resources cannot be individually disposed", h)
	}
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return nil
	}
	c.live[within] = false
	var zero D
	c.descriptors[within] = zero
	c.usages[within] = nil
	c.encoder[within].Store(nil)

	r.mu.Lock()
	r.free = append(r.free, h.Index())
	r.mu.Unlock()
	return nil
}

// IsValid reports whether h currently refers to a live slot in this
// registry: same kind, an allocated chunk, live, and matching generation or
// frame tag.
func (r *Registry[D]) IsValid(h Handle) bool {
	if h.Kind() != r.kind {
		return false
	}
	c, within, ok := r.chunkFor(h.Index())
	if !ok {
		return false
	}
	if !r.persistent {
		r.mu.RLock()
		tag := r.frameTag
		r.mu.RUnlock()
		if h.Generation() != tag {
			return false
		}
	}
	return c.live[within] && c.generations[within] == h.Generation()
}

// Descriptor returns the descriptor stored for h.
func (r *Registry[D]) Descriptor(h Handle) (D, bool) {
	var zero D
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return zero, false
	}
	return c.descriptors[within], true
}

// SetDescriptor overwrites the descriptor stored for h.
func (r *Registry[D]) SetDescriptor(h Handle, d D) bool {
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return false
	}
	c.descriptors[within] = d
	return true
}

// Label returns the debug label stored for h.
func (r *Registry[D]) Label(h Handle) (string, bool) {
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return "", false
	}
	return c.labels[within], true
}

// State returns the resource state flags for h.
func (r *Registry[D]) State(h Handle) (ResourceState, bool) {
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return 0, false
	}
	return c.state[within], true
}

// SetState overwrites the resource state flags for h.
func (r *Registry[D]) SetState(h Handle, s ResourceState) bool {
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return false
	}
	c.state[within] = s
	return true
}

// AppendUsage records one more (pass, usage) entry against h. Called only
// from the single encoder currently recording against this resource, so no
// synchronisation beyond a live chunk pointer is required.
func (r *Registry[D]) AppendUsage(h Handle, u ResourceUsage) bool {
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return false
	}
	c.usages[within] = append(c.usages[within], u)
	return true
}

// Usages returns the usage list recorded against h so far.
func (r *Registry[D]) Usages(h Handle) ([]ResourceUsage, bool) {
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return nil, false
	}
	return c.usages[within], true
}

// ClearUsages drops the usage list recorded against h, called once the
// compiler has consumed it for dependency inference.
func (r *Registry[D]) ClearUsages(h Handle) {
	if c, within, ok := r.chunkFor(h.Index()); ok {
		c.usages[within] = nil
	}
}

// WaitValues returns the last-known read/write sync wait values for a
// history/externally-synchronised resource (spec §4.H phase 6).
func (r *Registry[D]) WaitValues(h Handle) (readWait, writeWait uint64, ok bool) {
	c, within, found := r.chunkFor(h.Index())
	if !found || !c.live[within] || c.generations[within] != h.Generation() {
		return 0, 0, false
	}
	return c.readWait[within], c.writeWait[within], true
}

// SetWaitValues updates the read/write sync wait values for h.
func (r *Registry[D]) SetWaitValues(h Handle, readWait, writeWait uint64) bool {
	c, within, ok := r.chunkFor(h.Index())
	if !ok || !c.live[within] || c.generations[within] != h.Generation() {
		return false
	}
	c.readWait[within] = readWait
	c.writeWait[within] = writeWait
	return true
}

// Encoder returns the lazily-resolved backend encoder stored for an
// argument-buffer handle, or nil if none has been set yet.
func (r *Registry[D]) Encoder(h Handle) any {
	c, within, ok := r.chunkFor(h.Index())
	if !ok {
		return nil
	}
	if p := c.encoder[within].Load(); p != nil {
		return *p
	}
	return nil
}

// SetEncoder stores the backend encoder resolved for an argument-buffer
// handle. Safe to call concurrently with Encoder from other threads
// resolving the same kind of handle in a different chunk.
func (r *Registry[D]) SetEncoder(h Handle, encoder any) {
	if c, within, ok := r.chunkFor(h.Index()); ok {
		c.encoder[within].Store(&encoder)
	}
}

// Reset reclaims every transient handle issued by this registry and begins
// a new frame tagged with frameTag. It is a contract violation to call
// Reset on a persistent registry.
func (r *Registry[D]) Reset(frameTag uint8) {
	if r.persistent {
		violate("Reset", "persistent registries are not reset per frame", 0)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextIndex = 0
	r.frameTag = frameTag
	r.free = r.free[:0]
	for _, c := range r.chunks {
		c.fill = 0
	}
}

// ForEachLive calls fn once for every currently-live handle in the registry,
// in index order, without the caller needing registry internals.
func (r *Registry[D]) ForEachLive(fn func(Handle)) {
	r.mu.RLock()
	chunks := r.chunks
	r.mu.RUnlock()
	for chunkIdx, c := range chunks {
		for within := 0; within < ChunkSize; within++ {
			if !c.live[within] {
				continue
			}
			index := uint32(chunkIdx)*ChunkSize + uint32(within)
			flags := c.flags[within]
			if r.persistent {
				fn(NewPersistentHandle(r.kind, index, c.generations[within], flags))
			} else {
				fn(NewTransientHandle(r.kind, index, r.graphID, c.generations[within], flags))
			}
		}
	}
}
