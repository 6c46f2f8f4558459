// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// ComputeEncoder records a compute pass (spec §4.F "Compute encoder").
type ComputeEncoder struct {
	BindingEncoder

	threadsPerThreadgroup    [3]uint32
	threadgroupSizeIsMultiple bool
}

// NewComputeEncoder begins recording a compute pass.
func NewComputeEncoder(pass *PassRecord, persistent *PersistentRegistries, transient *TransientRegistries) *ComputeEncoder {
	e := &ComputeEncoder{BindingEncoder: NewBindingEncoder(pass, persistent, transient)}
	pass.Commands.Append(CmdPushDebugGroup, &DebugGroupPayload{Name: pass.Name})
	return e
}

// SetComputePipelineDescriptor installs the active pipeline.
func (e *ComputeEncoder) SetComputePipelineDescriptor(reflection PipelineReflection) {
	e.SetPipelineReflection(reflection)
	e.pass.Commands.Append(CmdSetComputePipeline, nil)
}

func (e *ComputeEncoder) updateThreadgroupFlag(threadsPerThreadgroup [3]uint32) {
	e.threadsPerThreadgroup = threadsPerThreadgroup
	width := uint32(1)
	if e.reflection != nil {
		width = e.reflection.ExecutionWidth()
	}
	total := threadsPerThreadgroup[0] * threadsPerThreadgroup[1] * threadsPerThreadgroup[2]
	e.threadgroupSizeIsMultiple = width != 0 && total%width == 0
}

// DispatchThreads dispatches by total thread count.
func (e *ComputeEncoder) DispatchThreads(threadsPerThreadgroup [3]uint32) {
	e.updateThreadgroupFlag(threadsPerThreadgroup)
	idx := e.pass.Commands.Append(CmdDispatchThreads, nil)
	e.noteCommand(idx)
}

// DispatchThreadgroups dispatches by threadgroup count.
func (e *ComputeEncoder) DispatchThreadgroups(threadsPerThreadgroup [3]uint32) {
	e.updateThreadgroupFlag(threadsPerThreadgroup)
	idx := e.pass.Commands.Append(CmdDispatchThreadgroups, nil)
	e.noteCommand(idx)
}

// DispatchThreadgroupsIndirect dispatches using an indirect argument buffer,
// recording an indirectBuffer usage on the compute stage.
func (e *ComputeEncoder) DispatchThreadgroupsIndirect(indirectBuf Handle, threadsPerThreadgroup [3]uint32) {
	e.updateThreadgroupFlag(threadsPerThreadgroup)
	idx := e.pass.Commands.Append(CmdDispatchThreadgroupsIndirect, nil)
	e.pass.AddUsage(&ResourceUsage{Handle: indirectBuf, Kind: UsageIndirectBuffer, Stages: StageCompute, FirstCommand: idx, LastCommand: idx})
	e.noteCommand(idx)
}

// EndEncoding closes the encoder.
func (e *ComputeEncoder) EndEncoding() { e.BindingEncoder.EndEncoding() }
