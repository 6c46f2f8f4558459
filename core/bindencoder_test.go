// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

import "testing"

// fakeReflection resolves a fixed set of keys to string paths, letting tests
// drive updateResourceUsages without a real backend.
type fakeReflection struct {
	paths map[string]any
	usage map[string]UsageKind
}

func newFakeReflection() *fakeReflection {
	return &fakeReflection{paths: make(map[string]any), usage: make(map[string]UsageKind)}
}

func (f *fakeReflection) bind(key string, path any, usage UsageKind) *fakeReflection {
	f.paths[key] = path
	f.usage[key] = usage
	return f
}

func (f *fakeReflection) ResolveBinding(key string, arrayIndex int) (any, bool, UsageKind, Stage, bool) {
	path, ok := f.paths[key]
	if !ok {
		return nil, false, 0, 0, false
	}
	return path, true, f.usage[key], StageFragment, true
}

func (f *fakeReflection) ResolveArgumentBufferPath(key string) (any, bool) {
	path, ok := f.paths[key]
	return path, ok
}

func (f *fakeReflection) RemapForActiveStages(path any) any { return path }
func (f *fakeReflection) ExecutionWidth() uint32             { return 32 }

func newTestBindingEncoder() (*BindingEncoder, *PassRecord) {
	pass := NewPassRecord(0, PassDraw, "test-pass", NewCommandStream(8))
	persistent := NewPersistentRegistries()
	transient := NewTransientRegistries(0)
	be := NewBindingEncoder(pass, persistent, transient)
	return &be, pass
}

func TestSetBufferTracksUsageOnceResolved(t *testing.T) {
	e, pass := newTestBindingEncoder()
	refl := newFakeReflection().bind("colorTexture", "path:color", UsageWrite)
	e.SetPipelineReflection(refl)

	buf := NewPersistentHandle(KindBuffer, 0, 1, 0)
	e.SetBuffer("colorTexture", buf, 0)
	e.noteCommand(pass.Commands.Len() - 1)

	if len(pass.Usages) != 1 {
		t.Fatalf("Usages = %d, want 1", len(pass.Usages))
	}
	if pass.Usages[0].Handle != buf {
		t.Errorf("usage handle = %v, want %v", pass.Usages[0].Handle, buf)
	}
	if pass.Usages[0].Kind != UsageWrite {
		t.Errorf("usage kind = %v, want %v", pass.Usages[0].Kind, UsageWrite)
	}
}

func TestSetBufferStaysPendingUntilResolvable(t *testing.T) {
	e, pass := newTestBindingEncoder()
	refl := newFakeReflection() // no bindings registered
	e.SetPipelineReflection(refl)

	buf := NewPersistentHandle(KindBuffer, 0, 1, 0)
	e.SetBuffer("unknownKey", buf, 0)
	e.noteCommand(pass.Commands.Len() - 1)

	if len(pass.Usages) != 0 {
		t.Fatalf("Usages = %d, want 0 while the key stays unresolved", len(pass.Usages))
	}
	if len(e.pendingBindings) != 1 {
		t.Fatalf("pendingBindings = %d, want 1", len(e.pendingBindings))
	}
}

func TestSetBufferUnchangedRebindingIsElided(t *testing.T) {
	e, pass := newTestBindingEncoder()
	refl := newFakeReflection().bind("slot", "path:slot", UsageRead)
	e.SetPipelineReflection(refl)

	buf := NewPersistentHandle(KindBuffer, 0, 1, 0)
	e.SetBuffer("slot", buf, 0)
	e.noteCommand(pass.Commands.Len() - 1)
	if len(pass.Usages) != 1 {
		t.Fatalf("Usages after first bind = %d, want 1", len(pass.Usages))
	}

	// Rebinding the identical buffer at the identical offset must not open a
	// second usage node (spec §4.E "elide redundant set_buffer").
	e.SetBuffer("slot", buf, 0)
	e.noteCommand(pass.Commands.Len() - 1)
	if len(pass.Usages) != 1 {
		t.Fatalf("Usages after redundant rebind = %d, want still 1", len(pass.Usages))
	}
}

func TestEndEncodingClosesOpenUsageNodes(t *testing.T) {
	e, pass := newTestBindingEncoder()
	// The empty-string binding keeps resolveByHandleKind's post-pipeline-
	// change re-examination (spec §4.E step 5) from closing the node the
	// moment it opens; see DESIGN.md's note on reexamineTrackedBindings.
	refl := newFakeReflection().bind("slot", "path:slot", UsageRead).bind("", "path:any", UsageRead)
	e.SetPipelineReflection(refl)

	buf := NewPersistentHandle(KindBuffer, 0, 1, 0)
	e.SetBuffer("slot", buf, 0)
	e.noteCommand(pass.Commands.Len() - 1)

	e.EndEncoding()

	if pass.Usages[0].LastCommand != e.lastGPUCommandIndex+1 {
		t.Errorf("LastCommand = %d, want %d", pass.Usages[0].LastCommand, e.lastGPUCommandIndex+1)
	}
}

func TestSetBufferOffsetRequiresControllingSetBuffer(t *testing.T) {
	e, _ := newTestBindingEncoder()
	refl := newFakeReflection().bind("slot", "path:slot", UsageRead)
	e.SetPipelineReflection(refl)

	defer func() {
		if recover() == nil {
			t.Fatal("SetBufferOffset with no prior SetBuffer under the same key should violate its contract")
		}
	}()
	e.SetBufferOffset("slot", 16)
	e.updateResourceUsages(false)
}
