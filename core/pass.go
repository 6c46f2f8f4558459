// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// PassKind discriminates the five recordable pass variants (spec §4.F).
type PassKind uint8

const (
	PassDraw PassKind = iota
	PassCompute
	PassBlit
	PassExternal
	PassCPU
)

// String implements fmt.Stringer.
func (k PassKind) String() string {
	switch k {
	case PassDraw:
		return "draw"
	case PassCompute:
		return "compute"
	case PassBlit:
		return "blit"
	case PassExternal:
		return "external"
	case PassCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// PassRecord is the deferred recording of one pass: its identity, the
// commands recorded into it, the resources it read and wrote, and the
// bookkeeping the compiler fills in during compilation (spec §3 "Pass
// record", §4.G, §4.H). A PassRecord is built once by a specialised encoder
// (DrawEncoder, ComputeEncoder, BlitEncoder, ExternalEncoder, or directly for
// a CPU pass) and handed to the compiler; nothing in it is mutated after the
// compiler finishes except the fields the compiler itself owns.
type PassRecord struct {
	Index int
	Kind  PassKind
	Name  string

	Commands *CommandStream

	// FirstCommand/LastCommand are filled in by the compiler once all passes
	// have been concatenated into one global command stream (spec §4.H
	// phase 8); at recording time Commands.Len() is the local count.
	FirstCommand int
	LastCommand  int

	Reads  []Handle
	Writes []Handle

	// DeclaredWrites/DeclaredReads, when the caller supplied them up front,
	// let the compiler build the dependency table before the pass has
	// actually recorded anything (spec §4.H phase 2): a pass that declares
	// its writes is recorded lazily, one at a time, in phase 6 and only if
	// it is still active, since the compiler already knows enough about it
	// to order around. A pass with no declared writes is recorded eagerly
	// in phase 2 instead, in parallel with every other such pass.
	DeclaredReads  []Handle
	DeclaredWrites []Handle

	// RecordFn performs the actual encoding — constructing the appropriate
	// specialised encoder, running the caller's callback against it, and
	// calling EndEncoding. The compiler invokes it at most once, either
	// eagerly in phase 2 or lazily in phase 6 (spec §4.H); a deferred pass
	// that is culled is never recorded.
	RecordFn func()
	recorded bool

	Usages []*ResourceUsage

	// RenderTarget is non-nil only for PassDraw; Used tracks, per color
	// attachment index, whether any command recorded against that slot,
	// feeding EffectiveRenderTarget.
	RenderTarget     *RenderTargetDescriptor
	RenderTargetUsed [8]bool

	// CPUCallback holds the user function for a PassCPU record. AddCPUPass
	// also installs it as RecordFn, so the compiler runs it while compiling;
	// CPU passes are dropped from the compiled plan and never reach the
	// backend.
	CPUCallback func()

	IsActive         bool
	UsesWindowTarget bool
	HasSideEffects   bool
}

// NewPassRecord starts a new pass record. commands is the stream the
// caller's encoder will append to.
func NewPassRecord(index int, kind PassKind, name string, commands *CommandStream) *PassRecord {
	return &PassRecord{Index: index, Kind: kind, Name: name, Commands: commands}
}

// RecordRead registers h as read by this pass, tracking the resource in
// Reads if not already present. It appends no usage.
func (p *PassRecord) RecordRead(h Handle) {
	if !containsHandle(p.Reads, h) {
		p.Reads = append(p.Reads, h)
	}
}

// RecordWrite registers h as written by this pass.
func (p *PassRecord) RecordWrite(h Handle) {
	if !containsHandle(p.Writes, h) {
		p.Writes = append(p.Writes, h)
	}
}

// AddUsage appends u to this pass's usage list, back-linking u.Pass to p.
func (p *PassRecord) AddUsage(u *ResourceUsage) {
	u.Pass = p
	p.Usages = append(p.Usages, u)
	if u.Kind.IsRead() {
		p.RecordRead(u.Handle)
	}
	if u.Kind.IsWrite() {
		p.RecordWrite(u.Handle)
	}
}

func containsHandle(hs []Handle, h Handle) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
