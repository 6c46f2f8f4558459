// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// pendingBindingRole discriminates how a pendingArgumentBuffer entry was
// staged: directly, or as one element of an argument-buffer array (spec
// §4.E "pending_argument_buffers").
type pendingBindingRole uint8

const (
	roleStandalone pendingBindingRole = iota
	roleInArray
)

type pendingBindingCommand struct {
	key        string
	arrayIndex int
	commandIdx int
}

type pendingArgumentBuffer struct {
	key                    string
	handle                 Handle // KindArgumentBuffer or KindArgumentBufferArray
	role                   pendingBindingRole
	arrayIndex             int
	assumeConsistentUsage  bool
}

// boundBinding is the record update_resource_usages keeps per currently
// tracked binding path (spec §4.E "bound_resources").
type boundBinding struct {
	path    any
	handle  Handle
	usage   UsageKind
	stages  Stage
	node    *ResourceUsage // open usage node; nil while inactive and unemitted
	command int            // emitted command index, -1 if never emitted

	// for setBuffer/setBufferOffset elision
	offset           uint64
	hasDynamicOffset bool

	assumeConsistentUsage bool
}

// BindingEncoder is the state a draw/compute/blit/external encoder shares
// for deferred resource binding (spec §4.E). It is embedded, never used
// directly by client code.
type BindingEncoder struct {
	pass       *PassRecord
	registries *TransientRegistries
	persistent *PersistentRegistries

	reflection           PipelineReflection
	pipelineChanged      bool
	lastGPUCommandIndex  int
	needsUpdate          bool

	pendingBindings      []pendingBindingCommand
	pendingArgBuffers    []pendingArgumentBuffer

	boundResources          map[any]*boundBinding
	untrackedBoundResources map[any]*boundBinding
}

// NewBindingEncoder initialises shared binding state for a pass. Concrete
// encoders (Draw/Compute/Blit/External) call this once at construction.
func NewBindingEncoder(pass *PassRecord, persistent *PersistentRegistries, transient *TransientRegistries) BindingEncoder {
	return BindingEncoder{
		pass:                    pass,
		registries:              transient,
		persistent:              persistent,
		boundResources:          make(map[any]*boundBinding),
		untrackedBoundResources: make(map[any]*boundBinding),
	}
}

// SetPipelineReflection installs the reflection for the currently bound
// pipeline, marking that the pipeline changed so the next
// updateResourceUsages re-examines every tracked binding (spec §4.E step 5).
func (e *BindingEncoder) SetPipelineReflection(r PipelineReflection) {
	e.reflection = r
	e.pipelineChanged = true
	e.needsUpdate = true
}

func (e *BindingEncoder) queueBinding(key string, arrayIndex, commandIdx int) {
	e.pendingBindings = append(e.pendingBindings, pendingBindingCommand{key: key, arrayIndex: arrayIndex, commandIdx: commandIdx})
	e.needsUpdate = true
}

// SetBytes records set_bytes(key) and stages the bytes for translation.
func (e *BindingEncoder) SetBytes(key string, data []byte) {
	idx := e.pass.Commands.Append(CmdSetBytes, &SetBytesPayload{Length: len(data)})
	e.queueBinding(key, 0, idx)
}

// SetBuffer records set_buffer(buf, offset, key).
func (e *BindingEncoder) SetBuffer(key string, buf Handle, offset uint64) {
	idx := e.pass.Commands.Append(CmdSetBuffer, &SetBufferPayload{Buffer: buf, Offset: offset})
	e.queueBinding(key, 0, idx)
}

// SetBufferOffset records set_buffer_offset(offset, key), reusing the slot
// most recently bound by SetBuffer under the same key.
func (e *BindingEncoder) SetBufferOffset(key string, offset uint64) {
	var controlling *SetBufferPayload
	if len(e.pass.Commands.commands) > 0 {
		for i := len(e.pass.Commands.commands) - 1; i >= 0; i-- {
			if sb, ok := e.pass.Commands.commands[i].Payload.(*SetBufferPayload); ok {
				controlling = sb
				break
			}
		}
	}
	idx := e.pass.Commands.Append(CmdSetBufferOffset, &SetBufferOffsetPayload{Offset: offset, Controlling: controlling})
	e.queueBinding(key, 0, idx)
}

// SetSampler records set_sampler(desc, key).
func (e *BindingEncoder) SetSampler(key string, sampler Handle) {
	idx := e.pass.Commands.Append(CmdSetSampler, &SetSamplerPayload{Sampler: sampler})
	e.queueBinding(key, 0, idx)
}

// SetTexture records set_texture(tex, key).
func (e *BindingEncoder) SetTexture(key string, tex Handle) {
	idx := e.pass.Commands.Append(CmdSetTexture, &SetTexturePayload{Texture: tex})
	e.queueBinding(key, 0, idx)
}

// SetArgumentBuffer records set_argument_buffer(argbuf, key).
func (e *BindingEncoder) SetArgumentBuffer(key string, argbuf Handle) {
	e.pendingArgBuffers = append(e.pendingArgBuffers, pendingArgumentBuffer{key: key, handle: argbuf, role: roleStandalone})
	e.needsUpdate = true
}

// SetArgumentBufferArray records set_argument_buffer_array(array, key, ...).
func (e *BindingEncoder) SetArgumentBufferArray(key string, array Handle, assumeConsistentUsage bool) {
	e.pendingArgBuffers = append(e.pendingArgBuffers, pendingArgumentBuffer{
		key: key, handle: array, role: roleInArray, assumeConsistentUsage: assumeConsistentUsage,
	})
	e.needsUpdate = true
}

// SetValue encodes a POD value as set_bytes (spec §4.E "set_value<T: POD>").
func (e *BindingEncoder) SetValue(key string, value []byte) {
	e.SetBytes(key, value)
}

// noteCommand advances last_gpu_command_index and requests an update ahead
// of a GPU-effecting command (draw/dispatch/copy), per spec §4.E.
func (e *BindingEncoder) noteCommand(idx int) {
	if idx > e.lastGPUCommandIndex {
		e.lastGPUCommandIndex = idx
	}
	e.updateResourceUsages(false)
}

// updateResourceUsages is the encoder's central algorithm (spec §4.E). When
// ending is true it only closes every open usage node to
// last_gpu_command_index+1 and returns.
func (e *BindingEncoder) updateResourceUsages(ending bool) {
	if ending {
		for _, b := range e.boundResources {
			if b.node != nil {
				b.node.LastCommand = e.lastGPUCommandIndex + 1
			}
		}
		for _, b := range e.untrackedBoundResources {
			if b.node != nil {
				b.node.LastCommand = e.lastGPUCommandIndex + 1
			}
		}
		return
	}
	if !e.needsUpdate {
		return
	}
	if e.reflection == nil {
		violate("updateResourceUsages", "no pipeline set", 0)
	}

	pending := e.pendingBindings
	e.pendingBindings = e.pendingBindings[:0]
	var stillPending []pendingBindingCommand

	for _, pb := range pending {
		path, active, usage, stages, ok := e.reflection.ResolveBinding(pb.key, pb.arrayIndex)
		if !ok {
			stillPending = append(stillPending, pb)
			continue
		}
		cmd := e.pass.Commands.At(pb.commandIdx)
		e.applyResolvedBinding(path, active, usage, stages, pb, cmd)
	}
	e.pendingBindings = append(e.pendingBindings, stillPending...)

	e.processPendingArgumentBuffers()

	if e.pipelineChanged {
		e.reexamineTrackedBindings()
		e.pipelineChanged = false
	}

	e.needsUpdate = len(e.pendingBindings) > 0 || len(e.pendingArgBuffers) > 0
}

func (e *BindingEncoder) applyResolvedBinding(path any, active bool, usage UsageKind, stages Stage, pb pendingBindingCommand, cmd Command) {
	switch p := cmd.Payload.(type) {
	case *SetSamplerPayload:
		p.Path = path
		e.emitAndForget(pb.commandIdx)
		return
	case *SetBytesPayload:
		p.Path = path
		e.emitAndForget(pb.commandIdx)
		return
	case *SetArgumentBufferArrayPayload:
		p.Path = path
		return
	case *SetBufferOffsetPayload:
		p.Path = path
		e.emitAndForget(pb.commandIdx)
		if p.Controlling != nil {
			p.Controlling.HasDynamicOffset = true
		} else {
			violate("SetBufferOffset", "no controlling SetBuffer for key %q", 0, pb.key)
		}
		return
	case *SetBufferPayload:
		if prior, ok := e.boundResources[path]; ok && prior.handle == p.Buffer && (!e.pipelineChanged && prior.offset == p.Offset) {
			return
		}
		e.trackBinding(path, p.Buffer, active, usage, stages, pb.commandIdx)
		e.boundResources[path].offset = p.Offset
		return
	case *SetTexturePayload:
		if prior, ok := e.boundResources[path]; ok && prior.handle == p.Texture && !e.pipelineChanged {
			return
		}
		e.trackBinding(path, p.Texture, active, usage, stages, pb.commandIdx)
		return
	}
}

func (e *BindingEncoder) emitAndForget(commandIdx int) {
	e.pass.Commands.RewriteBindingPath(commandIdx, e.pass.Commands.At(commandIdx).Payload)
}

func (e *BindingEncoder) trackBinding(path any, handle Handle, active bool, usage UsageKind, stages Stage, commandIdx int) {
	if prior, ok := e.boundResources[path]; ok && prior.node != nil {
		prior.node.LastCommand = e.lastGPUCommandIndex
	}
	b := &boundBinding{path: path, handle: handle, usage: usage, stages: stages, command: -1}
	if active {
		node := &ResourceUsage{Handle: handle, Kind: usage, Stages: stages, FirstCommand: commandIdx, LastCommand: commandIdx}
		e.pass.AddUsage(node)
		b.node = node
		b.command = commandIdx
	}
	e.boundResources[path] = b
}

func (e *BindingEncoder) processPendingArgumentBuffers() {
	var remaining []pendingArgumentBuffer
	for _, pa := range e.pendingArgBuffers {
		path, ok := e.reflection.ResolveArgumentBufferPath(pa.key)
		if !ok {
			remaining = append(remaining, pa)
			continue
		}
		ab, found := e.persistent.ArgumentBuffers.Descriptor(pa.handle)
		if !found {
			if v, ok := e.registries.ArgumentBuffers.Descriptor(pa.handle); ok {
				ab = v
			}
		}
		anyActive := false
		for _, entry := range ab.Pending {
			_, active, usage, stages, resolved := e.reflection.ResolveBinding(entry.Key, entry.ArrayIndex)
			var target Handle
			switch entry.Kind {
			case PendingBufferOffset:
				target = entry.Buffer
			case PendingTexture:
				target = entry.Texture
			case PendingSampler:
				target = entry.Sampler
			}
			if !resolved || !active {
				e.pass.AddUsage(&ResourceUsage{
					Handle: target, Kind: UsageUnusedArgumentBuffer,
					FirstCommand: e.lastGPUCommandIndex, LastCommand: e.lastGPUCommandIndex,
				})
				continue
			}
			anyActive = true
			e.pass.AddUsage(&ResourceUsage{
				Handle: target, Kind: usage, Stages: stages, InArgumentBuffer: true,
				FirstCommand: e.lastGPUCommandIndex, LastCommand: e.lastGPUCommandIndex,
			})
		}
		if anyActive || pa.role == roleStandalone {
			if pa.role == roleInArray {
				e.pass.Commands.Append(CmdSetArgumentBufferArray, &SetArgumentBufferArrayPayload{Path: path, ArgumentBufferArray: pa.handle})
			} else {
				e.pass.Commands.Append(CmdSetArgumentBuffer, &SetArgumentBufferPayload{Path: path, ArgumentBuffer: pa.handle})
			}
		}
	}
	e.pendingArgBuffers = remaining
}

func (e *BindingEncoder) reexamineTrackedBindings() {
	for path, b := range e.boundResources {
		newPath, active, usage, stages, ok := e.resolveByHandleKind(b)
		if !ok {
			continue
		}
		_ = newPath
		switch {
		case active && b.node == nil:
			node := &ResourceUsage{Handle: b.handle, Kind: usage, Stages: stages,
				FirstCommand: e.lastGPUCommandIndex, LastCommand: e.lastGPUCommandIndex}
			e.pass.AddUsage(node)
			b.node = node
		case !active && b.node != nil:
			b.node.LastCommand = e.lastGPUCommandIndex
			b.node = nil
		}
		if b.assumeConsistentUsage {
			delete(e.boundResources, path)
			e.untrackedBoundResources[path] = b
		}
	}
}

// resolveByHandleKind re-resolves a tracked binding's path against the
// current pipeline reflection after a pipeline change. Argument-buffer
// bindings are excluded — they are re-staged wholesale by
// processPendingArgumentBuffers instead.
func (e *BindingEncoder) resolveByHandleKind(b *boundBinding) (any, bool, UsageKind, Stage, bool) {
	path := e.reflection.RemapForActiveStages(b.path)
	_, active, usage, stages, ok := e.reflection.ResolveBinding("", 0)
	if !ok {
		return path, false, b.usage, b.stages, true
	}
	return path, active, usage, stages, true
}

// ResetAllBindings closes every bound usage range and clears the pending
// queues (spec §4.E "reset_all_bindings").
func (e *BindingEncoder) ResetAllBindings() {
	for _, b := range e.boundResources {
		if b.node != nil {
			b.node.LastCommand = e.lastGPUCommandIndex
		}
	}
	for _, b := range e.untrackedBoundResources {
		if b.node != nil {
			b.node.LastCommand = e.lastGPUCommandIndex
		}
	}
	e.boundResources = make(map[any]*boundBinding)
	e.untrackedBoundResources = make(map[any]*boundBinding)
	e.pendingBindings = nil
	e.pendingArgBuffers = nil
}

// EndEncoding finalises the encoder: closes every open usage and pops the
// pass's debug group (spec §4.E "end_encoding").
func (e *BindingEncoder) EndEncoding() {
	e.updateResourceUsages(true)
	e.pass.Commands.Append(CmdPopDebugGroup, &DebugGroupPayload{Name: e.pass.Name})
}
