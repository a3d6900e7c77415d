// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/picker"
	"github.com/jeranaias/mention-tui/internal/segment"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
	"github.com/jeranaias/mention-tui/internal/util"
)

// Default picker dimensions.
const (
	DefaultMaxVisible = 8
	DefaultWidth      = 40

	// border and horizontal padding of the box
	boxChrome = 4
	// indicator column in front of every row
	indicatorWidth = 2
)

// =============================================================================
// PICKER POPUP COMPONENT
// =============================================================================

// Picker renders the candidate list of an open mention search. It only
// reflects the view state it is given; highlight changes go through the
// mention machine.
type Picker struct {
	state      mention.ViewState
	maxVisible int
	width      int
	theme      *styles.Theme
}

// NewPicker creates a hidden picker.
func NewPicker(theme *styles.Theme) *Picker {
	return &Picker{
		state:      mention.Hidden(),
		maxVisible: DefaultMaxVisible,
		width:      DefaultWidth,
		theme:      theme,
	}
}

// SetState replaces the rendered view state.
func (p *Picker) SetState(vs mention.ViewState) {
	p.state = vs
}

// State returns the rendered view state.
func (p *Picker) State() mention.ViewState {
	return p.state
}

// Visible reports whether the picker has anything to draw.
func (p *Picker) Visible() bool {
	return p.state.Visible
}

// SetWidth sets the popup width including its border.
func (p *Picker) SetWidth(width int) {
	if width < boxChrome+indicatorWidth+1 {
		width = boxChrome + indicatorWidth + 1
	}
	p.width = width
}

// Width returns the popup width including its border.
func (p *Picker) Width() int {
	return p.width
}

// SetMaxVisible sets the maximum number of rows shown at once.
func (p *Picker) SetMaxVisible(max int) {
	if max < 1 {
		max = 1
	}
	p.maxVisible = max
}

// window returns the visible candidate range [start, end), keeping the
// highlighted row centred where possible.
func (p *Picker) window() (int, int) {
	n := len(p.state.Candidates)
	if n <= p.maxVisible {
		return 0, n
	}

	start := p.state.HighlightedIndex - p.maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + p.maxVisible
	if end > n {
		end = n
		start = end - p.maxVisible
	}
	return start, end
}

// View renders the popup, or "" when the picker is hidden.
func (p *Picker) View() string {
	if !p.state.Visible {
		return ""
	}

	inner := p.width - boxChrome
	var rows []string

	if len(p.state.Candidates) == 0 {
		rows = append(rows, p.theme.PickerEmpty.Render(util.PadRight("no matches", inner)))
	} else {
		start, end := p.window()
		for i := start; i < end; i++ {
			rows = append(rows, p.renderRow(p.state.Candidates[i], i == p.state.HighlightedIndex, inner))
		}
		if end-start < len(p.state.Candidates) {
			pos := fmt.Sprintf("%d/%d", p.state.HighlightedIndex+1, len(p.state.Candidates))
			rows = append(rows, p.theme.PickerScroll.Render(util.PadRight(pos, inner)))
		}
	}

	return p.theme.PickerBox.
		Width(p.width - 2).
		Render(strings.Join(rows, "\n"))
}

// renderRow renders one candidate with its matched runs emphasised.
func (p *Picker) renderRow(opt picker.MatchedOption, selected bool, inner int) string {
	base, match := p.theme.PickerItem, p.theme.PickerMatch
	indicator := "  "
	if selected {
		base, match = p.theme.PickerSelected, p.theme.PickerSelectedMatch
		indicator = "> "
	}

	var b strings.Builder
	b.WriteString(base.Render(indicator))

	budget := inner - indicatorWidth
	used := 0
	for _, run := range runsOf(opt) {
		if used >= budget {
			break
		}
		text := run.Text
		if util.StringWidth(text) > budget-used {
			text = util.TruncateWidth(text, budget-used)
		}
		used += util.StringWidth(text)

		if run.Matched {
			b.WriteString(match.Render(text))
		} else {
			b.WriteString(base.Render(text))
		}
	}
	if used < budget {
		b.WriteString(base.Render(strings.Repeat(" ", budget-used)))
	}
	return b.String()
}

// runsOf falls back to the bare name when a candidate carries no runs.
func runsOf(opt picker.MatchedOption) []segment.Run {
	if len(opt.Segments) > 0 {
		return opt.Segments
	}
	return []segment.Run{{Text: opt.Option.Name}}
}

// ViewCompact renders a single-line summary for narrow layouts.
func (p *Picker) ViewCompact() string {
	if !p.state.Visible {
		return ""
	}
	switch n := len(p.state.Candidates); n {
	case 0:
		return p.theme.PickerEmpty.Render("no matches")
	case 1:
		return p.theme.HelpText.Render("Enter: " + p.state.Candidates[0].Option.Name)
	default:
		hl := p.state.HighlightedIndex
		if hl < 0 || hl >= n {
			hl = 0
		}
		return p.theme.HelpText.Render(fmt.Sprintf("Enter: %s (%d/%d)", p.state.Candidates[hl].Option.Name, hl+1, n))
	}
}
