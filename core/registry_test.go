// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "testing"

func TestPersistentRegistryAllocateAndDispose(t *testing.T) {
	r := NewPersistentRegistry[string](KindBuffer)

	h1, err := r.Allocate("first", "buf-1", 0)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !r.IsValid(h1) {
		t.Fatal("freshly allocated handle should be valid")
	}
	if got, _ := r.Descriptor(h1); got != "first" {
		t.Errorf("Descriptor = %q, want %q", got, "first")
	}

	if err := r.Dispose(h1); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if r.IsValid(h1) {
		t.Error("disposed handle should no longer be valid")
	}

	// Disposing again must be a silent no-op, not an error.
	if err := r.Dispose(h1); err != nil {
		t.Fatalf("second Dispose returned an error: %v", err)
	}

	h2, err := r.Allocate("second", "buf-2", 0)
	if err != nil {
		t.Fatalf("Allocate after dispose: %v", err)
	}
	if h2.Index() != h1.Index() {
		t.Fatalf("expected free-list reuse of index %d, got %d", h1.Index(), h2.Index())
	}
	if h2.Generation() != h1.Generation()+1 {
		t.Errorf("Generation() = %d, want %d (bumped on reuse)", h2.Generation(), h1.Generation()+1)
	}
	// The old handle must not be confused with the new allocation at the
	// same index, even though the index matches.
	if r.IsValid(h1) {
		t.Error("stale handle from before reuse should not validate against the new generation")
	}
	if !r.IsValid(h2) {
		t.Error("reused handle should be valid")
	}
}

func TestPersistentRegistryDisposeOfTransientIsContractViolation(t *testing.T) {
	r := NewPersistentRegistry[string](KindBuffer)
	tr := NewTransientRegistry[string](KindBuffer, 0)
	th, err := tr.Allocate("x", "transient", 0)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Dispose of a transient handle against a persistent registry should panic")
		}
	}()
	_ = r.Dispose(th)
}

func TestTransientRegistryResetReclaimsIndices(t *testing.T) {
	tr := NewTransientRegistry[int](KindTexture, 1)

	h1, err := tr.Allocate(1, "t1", 0)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if h1.GraphID() != 1 {
		t.Errorf("GraphID() = %d, want 1", h1.GraphID())
	}

	tr.Reset(1)
	h2, err := tr.Allocate(2, "t2", 0)
	if err != nil {
		t.Fatalf("Allocate after Reset: %v", err)
	}
	if h2.Index() != h1.Index() {
		t.Fatalf("Reset should reclaim index %d, got %d", h1.Index(), h2.Index())
	}
	if r := tr.IsValid(h1); r {
		t.Error("handle from the previous frame tag should no longer validate")
	}
	if !tr.IsValid(h2) {
		t.Error("handle allocated after Reset should be valid")
	}
}

func TestRegistryForEachLiveVisitsOnlyLiveHandles(t *testing.T) {
	r := NewPersistentRegistry[int](KindBuffer)
	h1, _ := r.Allocate(1, "a", 0)
	h2, _ := r.Allocate(2, "b", 0)
	_ = r.Dispose(h1)

	var seen []Handle
	r.ForEachLive(func(h Handle) { seen = append(seen, h) })

	if len(seen) != 1 || seen[0].Index() != h2.Index() {
		t.Fatalf("ForEachLive = %v, want exactly one live handle matching %v", seen, h2)
	}
}

func TestRegistryAppendAndClearUsages(t *testing.T) {
	r := NewPersistentRegistry[int](KindBuffer)
	h, _ := r.Allocate(0, "res", 0)

	r.AppendUsage(h, ResourceUsage{Handle: h, Kind: UsageRead})
	r.AppendUsage(h, ResourceUsage{Handle: h, Kind: UsageWrite})

	usages, ok := r.Usages(h)
	if !ok || len(usages) != 2 {
		t.Fatalf("Usages = %v, ok=%v, want 2 entries", usages, ok)
	}

	r.ClearUsages(h)
	usages, ok = r.Usages(h)
	if !ok || len(usages) != 0 {
		t.Fatalf("Usages after ClearUsages = %v, want empty", usages)
	}
}

func TestRegistryGrowsAcrossChunkBoundary(t *testing.T) {
	r := NewPersistentRegistry[int](KindBuffer)
	var last Handle
	for i := 0; i < ChunkSize+5; i++ {
		h, err := r.Allocate(i, "", 0)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		last = h
	}
	if !r.IsValid(last) {
		t.Fatal("handle allocated past the first chunk boundary should be valid")
	}
	if got, _ := r.Descriptor(last); got != ChunkSize+4 {
		t.Errorf("Descriptor(last) = %d, want %d", got, ChunkSize+4)
	}
}
