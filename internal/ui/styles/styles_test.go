// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewThemeForcedBackground(t *testing.T) {
	tests := []struct {
		name   string
		isDark bool
		want   string
	}{
		{ThemeDark, true, ThemeDark},
		{ThemeLight, false, ThemeLight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := NewThemeWithRenderer(tt.name, lipgloss.NewRenderer(io.Discard))
			require.NotNil(t, theme)
			assert.Equal(t, tt.want, theme.Name)
			assert.Equal(t, tt.isDark, theme.IsDark)
		})
	}
}

func TestUnknownThemeIsAuto(t *testing.T) {
	theme := Plain("neon")
	assert.Equal(t, ThemeAuto, theme.Name)
}

func TestPlainRendersWithoutEscapes(t *testing.T) {
	theme := Plain(ThemeDark)
	assert.Equal(t, termenv.Ascii, theme.ColorProfile)

	for name, style := range map[string]lipgloss.Style{
		"Mention":        theme.Mention,
		"OpenMention":    theme.OpenMention,
		"PickerSelected": theme.PickerSelected,
		"PickerMatch":    theme.PickerMatch,
		"StatusValue":    theme.StatusValue,
	} {
		assert.Equal(t, "John", style.Render("John"), name)
	}
}

func TestPickerBoxHasBorder(t *testing.T) {
	theme := Plain(ThemeDark)
	out := theme.PickerBox.Render("John")
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "John")
}

func TestLayoutMode(t *testing.T) {
	theme := Plain(ThemeDark)

	theme.SetSize(40, 10)
	assert.Equal(t, LayoutNarrow, theme.GetLayoutMode())
	theme.SetSize(80, 10)
	assert.Equal(t, LayoutMedium, theme.GetLayoutMode())
	theme.SetSize(120, 10)
	assert.Equal(t, LayoutWide, theme.GetLayoutMode())
}

// =============================================================================
// RENDER FUNCTION TESTS
// =============================================================================

func TestRenderStatusMessages(t *testing.T) {
	tests := []struct {
		render    func(string) string
		indicator string
	}{
		{RenderSuccess, StatusIndicators.Success},
		{RenderError, StatusIndicators.Error},
		{RenderWarning, StatusIndicators.Warning},
		{RenderInfo, StatusIndicators.Info},
	}

	for _, tt := range tests {
		out := tt.render("saved")
		assert.Contains(t, out, tt.indicator)
		assert.Contains(t, out, "saved")
	}
}

func TestStatusIndicatorsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, ind := range []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
	} {
		assert.False(t, seen[ind], ind)
		seen[ind] = true
	}
}
