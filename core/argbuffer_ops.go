// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "sync"

// argumentBufferMu guards inline-byte slab appends across argument buffers,
// mirroring the single per-registry lock spec §4.D calls for around
// set_bytes and translate_enqueued_bindings. A package-level lock is
// sufficient here because these operations are rare relative to per-frame
// binding traffic and never sit on a hot path.
var argumentBufferMu sync.Mutex

// SetBytes copies data into ab's inline-byte slab and stages a pending
// binding recording the offset and length (spec §4.D "set_bytes").
func (ab *ArgumentBuffer) SetBytes(key string, arrayIndex int, data []byte) {
	argumentBufferMu.Lock()
	offset := len(ab.InlineBytes)
	ab.InlineBytes = append(ab.InlineBytes, data...)
	argumentBufferMu.Unlock()

	ab.Pending = append(ab.Pending, PendingBinding{
		Key: key, ArrayIndex: arrayIndex, Kind: PendingInlineBytes,
		InlineOffset: offset, InlineLength: len(data),
	})
}

// SetBuffer stages a pending (key, array_index, buffer+offset) binding.
// argBufIsPersistent enforces spec §4.D's contract that a non-persistent
// (transient) resource can never be bound into a persistent argument
// buffer, since the buffer would outlive the resource it points at.
func (ab *ArgumentBuffer) SetBuffer(key string, arrayIndex int, buf Handle, offset uint64, argBufIsPersistent bool) {
	if argBufIsPersistent && !buf.IsPersistent() {
		violate("SetBuffer", "transient resource bound into a persistent argument buffer", buf)
	}
	ab.Pending = append(ab.Pending, PendingBinding{
		Key: key, ArrayIndex: arrayIndex, Kind: PendingBufferOffset, Buffer: buf, BufferOffset: offset,
	})
}

// SetTexture stages a pending (key, array_index, texture) binding.
func (ab *ArgumentBuffer) SetTexture(key string, arrayIndex int, tex Handle, argBufIsPersistent bool) {
	if argBufIsPersistent && !tex.IsPersistent() {
		violate("SetTexture", "transient resource bound into a persistent argument buffer", tex)
	}
	ab.Pending = append(ab.Pending, PendingBinding{Key: key, ArrayIndex: arrayIndex, Kind: PendingTexture, Texture: tex})
}

// SetSampler stages a pending (key, array_index, sampler) binding. Samplers
// have no transient flavor, so no persistence check applies.
func (ab *ArgumentBuffer) SetSampler(key string, arrayIndex int, sampler Handle) {
	ab.Pending = append(ab.Pending, PendingBinding{Key: key, ArrayIndex: arrayIndex, Kind: PendingSampler, Sampler: sampler})
}

// BindingResolver resolves one pending binding to a concrete backend path,
// or reports it cannot yet be resolved (spec §4.D
// "translate_enqueued_bindings(f)").
type BindingResolver func(key string, arrayIndex int, binding PendingBinding) (path any, ok bool)

// TranslateEnqueuedBindings scans ab's pending list, calling resolve for
// each entry. Resolved entries move to the resolved list; unresolved
// entries stay pending for a later call (e.g. after a pipeline change makes
// their path available). The whole scan runs under argumentBufferMu, since
// resolve may itself consult shared registry state.
func (ab *ArgumentBuffer) TranslateEnqueuedBindings(resolve BindingResolver) {
	argumentBufferMu.Lock()
	defer argumentBufferMu.Unlock()

	var stillPending []PendingBinding
	for _, pb := range ab.Pending {
		if path, ok := resolve(pb.Key, pb.ArrayIndex, pb); ok {
			ab.Resolved = append(ab.Resolved, ResolvedBinding{PendingBinding: pb, Path: path})
			continue
		}
		stillPending = append(stillPending, pb)
	}
	ab.Pending = stillPending
}
