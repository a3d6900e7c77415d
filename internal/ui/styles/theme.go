// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Theme holds all the styled components for the editor.
// Styles are bound to one renderer so a forced light or dark theme does not
// leak into other renderers.
type Theme struct {
	// Terminal capabilities
	Name         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// DOCUMENT STYLES
	// ==========================================================================

	App         lipgloss.Style
	Prompt      lipgloss.Style
	Text        lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style
	Mention     lipgloss.Style
	OpenMention lipgloss.Style

	// ==========================================================================
	// PICKER STYLES
	// ==========================================================================

	PickerBox           lipgloss.Style
	PickerItem          lipgloss.Style
	PickerSelected      lipgloss.Style
	PickerMatch         lipgloss.Style
	PickerSelectedMatch lipgloss.Style
	PickerEmpty         lipgloss.Style
	PickerScroll        lipgloss.Style

	// ==========================================================================
	// STATUS AND HISTORY STYLES
	// ==========================================================================

	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style
	History     lipgloss.Style
	HelpText    lipgloss.Style
	ErrorText   lipgloss.Style
}

// NewTheme creates a theme for stdout. Unknown names behave like "auto".
func NewTheme(name string) *Theme {
	return NewThemeWithRenderer(name, lipgloss.NewRenderer(os.Stdout))
}

// Plain creates a theme that renders without escape sequences.
func Plain(name string) *Theme {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return NewThemeWithRenderer(name, r)
}

// NewThemeWithRenderer creates a theme whose styles render through r.
func NewThemeWithRenderer(name string, r *lipgloss.Renderer) *Theme {
	switch name {
	case ThemeDark:
		r.SetHasDarkBackground(true)
	case ThemeLight:
		r.SetHasDarkBackground(false)
	default:
		name = ThemeAuto
	}

	t := &Theme{
		Name:         name,
		IsDark:       r.HasDarkBackground(),
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}

	t.initStyles()
	return t
}

// Renderer returns the renderer the styles are bound to.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	t.App = s().Padding(0, 1)

	// Document
	t.Prompt = s().
		Bold(true).
		Foreground(Cyan)

	t.Text = s().
		Foreground(TextPrimary)

	t.Placeholder = s().
		Foreground(TextMuted).
		Italic(true)

	t.Cursor = s().
		Reverse(true)

	t.Mention = s().
		Bold(true).
		Foreground(Purple).
		Background(PurpleDeep)

	t.OpenMention = s().
		Foreground(Amber).
		Underline(true)

	// Picker
	t.PickerBox = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.PickerItem = s().
		Foreground(TextPrimary)

	t.PickerSelected = s().
		Background(Cyan).
		Foreground(Surface).
		Bold(true)

	t.PickerMatch = s().
		Foreground(Cyan).
		Bold(true)

	t.PickerSelectedMatch = s().
		Background(Cyan).
		Foreground(Surface).
		Bold(true).
		Underline(true)

	t.PickerEmpty = s().
		Foreground(TextMuted).
		Italic(true)

	t.PickerScroll = s().
		Foreground(TextSecondary)

	// Status and history
	t.StatusBar = s().
		Foreground(TextSecondary).
		Background(SurfaceDim)

	t.StatusKey = s().
		Foreground(TextMuted)

	t.StatusValue = s().
		Foreground(Purple).
		Bold(true)

	t.History = s().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(Overlay).
		PaddingLeft(1)

	t.HelpText = s().
		Foreground(TextMuted)

	t.ErrorText = s().
		Foreground(Rose).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
