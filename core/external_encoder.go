// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package core

// ExternalEncoder records opaque calls whose payload the backend alone
// interprets, while still tracking usages for any resource the call touches
// (spec §4.F "External encoder").
type ExternalEncoder struct {
	BindingEncoder
}

// NewExternalEncoder begins recording an external pass.
func NewExternalEncoder(pass *PassRecord, persistent *PersistentRegistries, transient *TransientRegistries) *ExternalEncoder {
	e := &ExternalEncoder{BindingEncoder: NewBindingEncoder(pass, persistent, transient)}
	pass.Commands.Append(CmdPushDebugGroup, &DebugGroupPayload{Name: pass.Name})
	return e
}

// ExternalCall records an opaque call along with the usages it declares
// against resources it touches.
func (e *ExternalEncoder) ExternalCall(opaque any, usages []ResourceUsage) {
	idx := e.pass.Commands.Append(CmdExternalCall, &ExternalCallPayload{Opaque: opaque})
	for i := range usages {
		u := usages[i]
		u.FirstCommand, u.LastCommand = idx, idx
		e.pass.AddUsage(&u)
	}
	e.noteCommand(idx)
}

// EndEncoding closes the encoder.
func (e *ExternalEncoder) EndEncoding() { e.BindingEncoder.EndEncoding() }
