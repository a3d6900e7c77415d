// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the mention editor.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals.

# Color System (colors.go)

  - Purple - Completed mention chips
  - Cyan - Picker border and highlighted candidate
  - Amber - Open search span and warnings
  - Rose - Errors

Status messages carry an ASCII indicator next to the color:

	styles.RenderError("options file not found")  // "[X] options file not found"

# Theme System (theme.go)

A Theme binds every style to a single lipgloss.Renderer. The "dark" and
"light" themes force the background, "auto" asks the terminal:

	theme := styles.NewTheme(cfg.UI.Theme)
	chip := theme.Mention.Render("John")

Plain returns a theme that renders without escape sequences, which keeps
golden output in tests readable.
*/
package styles
