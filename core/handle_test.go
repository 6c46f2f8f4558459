// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "testing"

func TestHandleRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		kind       ResourceKind
		index      uint32
		generation uint8
		graphID    uint8
		flags      HandleFlags
	}{
		{"buffer", KindBuffer, 0, 1, 0, 0},
		{"texture-max-index", KindTexture, MaxRegistryIndex, 7, 5, FlagWindowHandle},
		{"sampler-with-flags", KindSampler, 1234, 42, 3, FlagPersistent | FlagImmutableOnceInitialised},
		{"argument-buffer-view", KindArgumentBuffer, 99, 1, 2, FlagResourceView},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := pack(tc.kind, tc.index, tc.graphID, tc.flags, tc.generation)
			if h.Kind() != tc.kind {
				t.Errorf("Kind() = %v, want %v", h.Kind(), tc.kind)
			}
			if h.Index() != tc.index {
				t.Errorf("Index() = %d, want %d", h.Index(), tc.index)
			}
			if h.Generation() != tc.generation {
				t.Errorf("Generation() = %d, want %d", h.Generation(), tc.generation)
			}
			if h.GraphID() != tc.graphID {
				t.Errorf("GraphID() = %d, want %d", h.GraphID(), tc.graphID)
			}
			if h.Flags() != tc.flags {
				t.Errorf("Flags() = %08b, want %08b", h.Flags(), tc.flags)
			}
		})
	}
}

func TestNewPersistentHandleSetsFlagPersistent(t *testing.T) {
	h := NewPersistentHandle(KindBuffer, 1, 1, 0)
	if !h.IsPersistent() {
		t.Fatal("persistent handle reports IsPersistent() == false")
	}
}

func TestNewTransientHandleClearsFlagPersistent(t *testing.T) {
	h := NewTransientHandle(KindBuffer, 1, 2, 1, FlagPersistent|FlagWindowHandle)
	if h.IsPersistent() {
		t.Fatal("transient handle reports IsPersistent() == true")
	}
	if h.GraphID() != 2 {
		t.Errorf("GraphID() = %d, want 2", h.GraphID())
	}
	if h.Flags()&FlagWindowHandle == 0 {
		t.Error("FlagWindowHandle was dropped by NewTransientHandle")
	}
}

func TestHandleIsZero(t *testing.T) {
	var zero Handle
	if !zero.IsZero() {
		t.Error("zero value Handle should report IsZero() == true")
	}
	h := NewPersistentHandle(KindBuffer, 0, 1, 0)
	if h.IsZero() {
		t.Error("a real allocation with generation 1 should not report IsZero()")
	}
}

func TestPackPanicsOnOversizedIndex(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("pack did not panic on an out-of-range index")
		}
	}()
	pack(KindBuffer, MaxRegistryIndex+1, 0, 0, 0)
}

func TestHasSideEffectFlags(t *testing.T) {
	if (FlagResourceView).HasSideEffectFlags() {
		t.Error("FlagResourceView alone should not be side-effecting")
	}
	if !(FlagWindowHandle).HasSideEffectFlags() {
		t.Error("FlagWindowHandle should be side-effecting")
	}
	if !(FlagPersistent | FlagResourceView).HasSideEffectFlags() {
		t.Error("FlagPersistent combined with other flags should still be side-effecting")
	}
}
