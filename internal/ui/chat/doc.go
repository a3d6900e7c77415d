// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea composer for mention-aware messages.

The composer is a single-line editor backed by an editor.Session. Typing
the trigger character opens an inline picker under the trigger; arrow keys
move the highlight and Enter or Tab inserts the highlighted option as a
mention chip. Enter outside a search sends the message to the history
above the editor.

# Key Types

  - Model: the tea.Model; create it with New
  - KeyMap: key bindings, also used by the help view
  - OptionsReloadedMsg: deliver a reloaded option universe
  - SubmittedMsg: emitted after every send

# Usage

	m, err := chat.New(chat.Options{Mention: mcfg, Theme: theme, Universe: u})
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	// from an options watcher goroutine
	p.Send(chat.OptionsReloadedMsg{Universe: u})
*/
package chat
