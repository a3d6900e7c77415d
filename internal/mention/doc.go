// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements the interaction state machine for inline
// mentions.
//
// The Machine owns the lifecycle of at most one in-progress search. A host
// editor reports pending operations (BeforeOperation), post-change snapshots
// (OnDocumentChange) and key events (OnKeyEvent); the machine answers with
// mutation requests sent to the Host and with ViewState values emitted to an
// Observer.
//
// # Lifecycle
//
//	Idle --trigger typed--> Searching --Tab/Enter--> Completing --> Idle
//	                            |
//	                            +--cursor left / trigger deleted / Esc--> Idle
//
// A span is created uncompleted when the trigger character is typed, is
// marked completed exactly once at commit and is afterwards deleted only as
// a whole unit.
//
// # Usage
//
//	m, err := mention.New(mention.DefaultConfig(), buf, mention.ObserverFunc(render))
//	m.SetOptions(options)
//	op, consumed := m.BeforeOperation(mention.InsertText(buf.Cursor(), "$"))
//	if !consumed {
//	    buf.Apply(op)
//	}
//	m.OnDocumentChange(buf.Snapshot())
package mention
