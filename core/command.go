// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// CommandTag discriminates a Command's payload. The backend switches on Tag
// and interprets Payload accordingly; core never interprets payloads beyond
// the binding-path rewriting described in spec §4.C.
type CommandTag uint16

const (
	CmdSetBytes CommandTag = iota
	CmdSetBuffer
	CmdSetBufferOffset
	CmdSetSampler
	CmdSetTexture
	CmdSetArgumentBuffer
	CmdSetArgumentBufferArray

	CmdSetRenderPipeline
	CmdSetDepthStencilState
	CmdSetVertexBuffer
	CmdDrawPrimitives
	CmdDrawIndexedPrimitives
	CmdClearRenderTargets

	CmdSetComputePipeline
	CmdDispatchThreads
	CmdDispatchThreadgroups
	CmdDispatchThreadgroupsIndirect

	CmdCopyBufferToBuffer
	CmdCopyBufferToTexture
	CmdCopyTextureToBuffer
	CmdCopyTextureToTexture
	CmdFillBuffer
	CmdGenerateMipmaps
	CmdSynchroniseBuffer
	CmdSynchroniseTexture
	CmdSynchroniseTextureSlice

	CmdExternalCall

	CmdPushDebugGroup
	CmdPopDebugGroup
)

// Command is one recorded entry in a pass's command stream: a tag plus a
// payload held as an ordinary Go value. Binding commands carry a BindingPath
// that starts nil and is rewritten in place once reflection resolves the
// key that produced them (spec §4.C).
type Command struct {
	Tag     CommandTag
	Payload any
}

// BindingPathPayload is embedded by every payload struct that carries a
// resolvable binding path, letting the binding encoder rewrite it in place
// without a type switch over every command kind.
type BindingPathPayload interface {
	bindingPath() any
	setBindingPath(any)
}

// SetBytesPayload backs CmdSetBytes.
type SetBytesPayload struct {
	Path   any
	Offset int
	Length int
}

func (p *SetBytesPayload) bindingPath() any    { return p.Path }
func (p *SetBytesPayload) setBindingPath(v any) { p.Path = v }

// SetBufferPayload backs CmdSetBuffer.
type SetBufferPayload struct {
	Path             any
	Buffer           Handle
	Offset           uint64
	HasDynamicOffset bool
}

func (p *SetBufferPayload) bindingPath() any    { return p.Path }
func (p *SetBufferPayload) setBindingPath(v any) { p.Path = v }

// SetBufferOffsetPayload backs CmdSetBufferOffset. Controlling links to the
// SetBufferPayload that owns this slot, so the encoder can walk back to set
// HasDynamicOffset (spec §4.C). The buffer handle is not copied into this
// payload; a consumer reads it through Controlling.
type SetBufferOffsetPayload struct {
	Path       any
	Offset     uint64
	Controlling *SetBufferPayload
}

func (p *SetBufferOffsetPayload) bindingPath() any    { return p.Path }
func (p *SetBufferOffsetPayload) setBindingPath(v any) { p.Path = v }

// SetSamplerPayload backs CmdSetSampler.
type SetSamplerPayload struct {
	Path    any
	Sampler Handle
}

func (p *SetSamplerPayload) bindingPath() any    { return p.Path }
func (p *SetSamplerPayload) setBindingPath(v any) { p.Path = v }

// SetTexturePayload backs CmdSetTexture.
type SetTexturePayload struct {
	Path    any
	Texture Handle
}

func (p *SetTexturePayload) bindingPath() any    { return p.Path }
func (p *SetTexturePayload) setBindingPath(v any) { p.Path = v }

// SetArgumentBufferPayload backs CmdSetArgumentBuffer.
type SetArgumentBufferPayload struct {
	Path           any
	ArgumentBuffer Handle
}

func (p *SetArgumentBufferPayload) bindingPath() any    { return p.Path }
func (p *SetArgumentBufferPayload) setBindingPath(v any) { p.Path = v }

// SetArgumentBufferArrayPayload backs CmdSetArgumentBufferArray.
type SetArgumentBufferArrayPayload struct {
	Path                any
	ArgumentBufferArray Handle
}

func (p *SetArgumentBufferArrayPayload) bindingPath() any    { return p.Path }
func (p *SetArgumentBufferArrayPayload) setBindingPath(v any) { p.Path = v }

// ExternalCallPayload backs CmdExternalCall: an opaque pointer the backend
// interprets; core never looks inside it (spec §4.F "External encoder").
type ExternalCallPayload struct {
	Opaque any
}

// DebugGroupPayload backs CmdPushDebugGroup.
type DebugGroupPayload struct {
	Name string
}

// CommandStream is the append-only list of Commands recorded for one pass.
// It is a plain Go slice on the Go heap, not backed by package arena;
// payload structs are ordinary Go values passed through `any` rather than
// raw bytes (a deliberate deviation from the byte-exact POD payloads of
// spec §4.C, made to keep Go's type safety for payload fields — see
// DESIGN.md).
type CommandStream struct {
	commands []Command
}

// NewCommandStream creates an empty stream with capacity hint cap.
func NewCommandStream(capHint int) *CommandStream {
	return &CommandStream{commands: make([]Command, 0, capHint)}
}

// Append records a new command and returns its local index within the
// stream.
func (s *CommandStream) Append(tag CommandTag, payload any) int {
	s.commands = append(s.commands, Command{Tag: tag, Payload: payload})
	return len(s.commands) - 1
}

// Len reports how many commands have been recorded.
func (s *CommandStream) Len() int { return len(s.commands) }

// At returns the command at local index i.
func (s *CommandStream) At(i int) Command { return s.commands[i] }

// All returns every recorded command, in record order. Callers must not
// mutate the returned slice's payloads through index aliasing beyond the
// binding-path rewrite path (RewriteBindingPath).
func (s *CommandStream) All() []Command { return s.commands }

// RewriteBindingPath patches the binding path of the command at local index
// i in place, if its payload implements BindingPathPayload.
func (s *CommandStream) RewriteBindingPath(i int, path any) {
	if bp, ok := s.commands[i].Payload.(BindingPathPayload); ok {
		bp.setBindingPath(path)
	}
}
