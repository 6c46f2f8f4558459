// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import (
	"context"
	"testing"
)

func withDummyCommand(s *CommandStream) *CommandStream {
	s.Append(CmdSetBytes, &SetBytesPayload{})
	return s
}

// TestCompileCullsUnreachablePasses exercises spec §4.H phases 3–6: a pass
// whose output nobody reads and that carries no side effect is culled, while
// a pass reached by reverse reachability from a side-effecting pass survives
// and is ordered before its dependent.
func TestCompileCullsUnreachablePasses(t *testing.T) {
	bufUnused := NewTransientHandle(KindBuffer, 0, 0, 1, 0)
	bufY := NewTransientHandle(KindBuffer, 1, 0, 1, 0)
	windowTex := NewPersistentHandle(KindTexture, 0, 1, FlagWindowHandle)

	p0 := NewPassRecord(0, PassBlit, "unused-write", withDummyCommand(NewCommandStream(1)))
	p0.Writes = []Handle{bufUnused}

	p1 := NewPassRecord(1, PassBlit, "writes-bufY", withDummyCommand(NewCommandStream(1)))
	p1.Writes = []Handle{bufY}

	p2 := NewPassRecord(2, PassDraw, "reads-bufY-writes-window", withDummyCommand(NewCommandStream(1)))
	p2.Reads = []Handle{bufY}
	p2.Writes = []Handle{windowTex}
	p2.RenderTarget = &RenderTargetDescriptor{ColorCount: 1}
	p2.RenderTarget.ColorAttachment[0] = ColorAttachment{Texture: windowTex}

	c := NewCompiler(nil)
	plan, err := c.Compile(context.Background(), []*PassRecord{p0, p1, p2})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(plan.ActivePasses) != 2 {
		names := make([]string, len(plan.ActivePasses))
		for i, p := range plan.ActivePasses {
			names[i] = p.Name
		}
		t.Fatalf("ActivePasses = %v, want exactly [writes-bufY, reads-bufY-writes-window]", names)
	}
	if plan.ActivePasses[0].Name != "writes-bufY" || plan.ActivePasses[1].Name != "reads-bufY-writes-window" {
		t.Fatalf("unexpected ordering: %s, %s", plan.ActivePasses[0].Name, plan.ActivePasses[1].Name)
	}
	if !plan.ActivePasses[1].HasSideEffects {
		t.Error("pass writing the window handle should be marked HasSideEffects")
	}
	if !plan.ActivePasses[1].UsesWindowTarget {
		t.Error("pass writing the window handle should be marked UsesWindowTarget")
	}
}

// TestCompileEmptyPlan exercises the "every pass culled" path: a batch with
// no side-effecting pass compiles to zero active passes.
func TestCompileEmptyPlan(t *testing.T) {
	bufA := NewTransientHandle(KindBuffer, 0, 0, 1, 0)
	p0 := NewPassRecord(0, PassBlit, "dead-write", withDummyCommand(NewCommandStream(1)))
	p0.Writes = []Handle{bufA}

	c := NewCompiler(nil)
	plan, err := c.Compile(context.Background(), []*PassRecord{p0})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(plan.ActivePasses) != 0 {
		t.Fatalf("ActivePasses = %d, want 0", len(plan.ActivePasses))
	}
}

// TestCompileDeferredRecordingRunsDeclaredWritePasses verifies that a pass
// with DeclaredWrites is recorded lazily during compilation (phase 6) rather
// than eagerly, and that its declared write still participates in dependency
// analysis.
func TestCompileDeferredRecordingRunsDeclaredWritePasses(t *testing.T) {
	windowTex := NewPersistentHandle(KindTexture, 0, 1, FlagWindowHandle)
	bufZ := NewPersistentHandle(KindBuffer, 2, 1, 0)

	recorded := false
	deferred := NewPassRecord(0, PassCompute, "deferred", NewCommandStream(1))
	deferred.DeclaredWrites = []Handle{bufZ}
	deferred.RecordFn = func() {
		recorded = true
		deferred.Commands.Append(CmdSetBytes, &SetBytesPayload{})
	}

	consumer := NewPassRecord(1, PassDraw, "consumer", withDummyCommand(NewCommandStream(1)))
	consumer.Reads = []Handle{bufZ}
	consumer.Writes = []Handle{windowTex}
	consumer.RenderTarget = &RenderTargetDescriptor{ColorCount: 1}
	consumer.RenderTarget.ColorAttachment[0] = ColorAttachment{Texture: windowTex}

	c := NewCompiler(nil)
	plan, err := c.Compile(context.Background(), []*PassRecord{deferred, consumer})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !recorded {
		t.Fatal("deferred pass's RecordFn was never invoked during compilation")
	}
	if len(plan.ActivePasses) != 2 {
		t.Fatalf("ActivePasses = %d, want 2", len(plan.ActivePasses))
	}
}

func TestDependencyTableRestrictToKeep(t *testing.T) {
	table := newDependencyTable()
	table.set(2, 1, DepExecution)
	table.set(1, 0, DepOrdering)

	restricted := table.restrictTo(map[int]bool{1: true, 2: true})
	if restricted.Kind(2, 1) != DepExecution {
		t.Error("restrictTo dropped an edge between two kept indices")
	}
	if restricted.Kind(1, 0) != DepNone {
		t.Error("restrictTo kept an edge touching a dropped index")
	}
}
