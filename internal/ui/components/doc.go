// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the mention editor.

# Key Types

Picker (picker.go) - Popup listing the candidates of an open mention search.
Matched runs of each name are emphasised and the highlighted row is marked
with ">". Long lists scroll so the highlighted row stays in view.

# Usage

	p := components.NewPicker(theme)
	p.SetMaxVisible(cfg.UI.MaxVisible)
	p.SetWidth(cfg.UI.Width)

	// from a mention.Observer
	p.SetState(vs)
	fmt.Println(p.View())
*/
package components
