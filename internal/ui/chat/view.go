// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
	"github.com/jeranaias/mention-tui/internal/util"
)

const prompt = "> "

// =============================================================================
// LAYOUT
// =============================================================================

// renderChat stacks history, editor, picker, status and help. The history
// viewport takes whatever height is left.
func (m Model) renderChat() string {
	input := m.renderInput()
	popup := m.renderPicker()
	status := m.renderStatusBar()
	helpView := m.theme.HelpText.Render(m.help.View(m.keyMap))

	used := lipgloss.Height(input) + lipgloss.Height(status) + lipgloss.Height(helpView)
	if popup != "" {
		used += lipgloss.Height(popup)
	}
	m.viewport.Height = max(1, m.height-used)

	parts := []string{m.viewport.View(), input}
	if popup != "" {
		parts = append(parts, popup)
	}
	parts = append(parts, status, helpView)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// contentWidth is the width left for text after the prompt.
func (m Model) contentWidth() int {
	return max(10, m.width-util.StringWidth(prompt)-2)
}

// =============================================================================
// EDITOR
// =============================================================================

func (m Model) renderInput() string {
	snap := m.session.Buffer().Snapshot()

	var body string
	if m.session.Buffer().Text() == "" {
		hint := fmt.Sprintf("Type %c to mention someone", m.session.Machine().Config().Trigger)
		body = m.theme.Cursor.Render(" ") + m.theme.Placeholder.Render(hint)
	} else {
		cursor, ok := document.OffsetOf(snap.Root, snap.Selection)
		if !ok {
			cursor = -1
		}
		body = m.renderDocument(snap.Root, cursor)
	}

	body = wrap.String(wordwrap.String(body, m.contentWidth()), m.contentWidth())
	return lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Prompt.Render(prompt), body)
}

// runClass says how a run of document text is drawn.
type runClass int

const (
	classText runClass = iota
	classMention
	classOpen
)

type cell struct {
	r     rune
	class runClass
}

// renderDocument draws the tree with completed mentions as chips and the
// open search span underlined. A cursor of -1 draws no cursor.
func (m Model) renderDocument(root *document.Node, cursor int) string {
	kind := m.session.Machine().Config().MentionKind

	var cells []cell
	for _, leaf := range document.Leaves(root) {
		class := classOf(root, leaf.Path, kind)
		for _, r := range leaf.Node.Text {
			cells = append(cells, cell{r: r, class: class})
		}
	}

	var b strings.Builder
	var run []rune
	runClassOf := classText
	flush := func() {
		if len(run) > 0 {
			b.WriteString(m.styleFor(runClassOf).Render(string(run)))
			run = run[:0]
		}
	}

	for i, c := range cells {
		if i == cursor {
			flush()
			b.WriteString(m.theme.Cursor.Render(string(c.r)))
			continue
		}
		if c.class != runClassOf {
			flush()
			runClassOf = c.class
		}
		run = append(run, c.r)
	}
	flush()

	if cursor == len(cells) {
		b.WriteString(m.theme.Cursor.Render(" "))
	}
	return b.String()
}

func classOf(root *document.Node, path document.Path, kind string) runClass {
	for _, n := range document.CollectNodesAlongPath(path, root) {
		if n.IsCompletedSpan(kind) {
			return classMention
		}
		if n.Is(kind) {
			return classOpen
		}
	}
	return classText
}

func (m Model) styleFor(c runClass) lipgloss.Style {
	switch c {
	case classMention:
		return m.theme.Mention
	case classOpen:
		return m.theme.OpenMention
	}
	return m.theme.Text
}

// =============================================================================
// PICKER
// =============================================================================

// renderPicker draws the popup under the trigger character when it fits.
func (m Model) renderPicker() string {
	if !m.picker.Visible() {
		return ""
	}
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return m.picker.ViewCompact()
	}

	view := m.picker.View()
	return m.theme.Renderer().NewStyle().
		MarginLeft(m.pickerIndent()).
		Render(view)
}

// pickerIndent is the column of the trigger, clamped so the popup stays on
// screen.
func (m Model) pickerIndent() int {
	vs := m.picker.State()
	text := m.session.Buffer().Text()
	before := util.SafeSubstring(text, 0, vs.Anchor.Offset)

	col := util.StringWidth(prompt) + util.StringWidth(before)%m.contentWidth()
	if limit := m.width - m.picker.Width(); col > limit {
		col = limit
	}
	return max(0, col)
}

// =============================================================================
// HISTORY
// =============================================================================

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return ""
	}

	width := max(10, m.width-4)
	var entries []string
	for _, sub := range m.history {
		stamp := m.theme.HelpText.Render(sub.At.Format("15:04"))
		body := wrap.String(wordwrap.String(m.renderDocument(sub.Root, -1), width), width)

		entry := stamp + "\n" + body
		if len(sub.Entities) > 0 {
			entry += "\n" + m.theme.HelpText.Render("mentions: "+names(sub.Entities))
		}
		entries = append(entries, m.theme.History.Render(entry))
	}
	return strings.Join(entries, "\n\n")
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	var parts []string

	machine := m.session.Machine()
	if machine.State() == mention.StateSearching {
		vs := m.picker.State()
		parts = append(parts, m.theme.StatusKey.Render("searching ")+
			m.theme.StatusValue.Render(fmt.Sprintf("%c%s", machine.Config().Trigger, vs.SearchText))+
			m.theme.StatusKey.Render(fmt.Sprintf(" (%d)", len(vs.Candidates))))
	}

	if entities := machine.Entities(); len(entities) > 0 {
		parts = append(parts, m.theme.StatusKey.Render("mentions: ")+m.theme.StatusValue.Render(names(entities)))
	}

	switch {
	case m.lastError != nil:
		parts = append(parts, m.theme.ErrorText.Render(m.lastError.Error()))
	case m.statusMsg != "":
		parts = append(parts, m.theme.StatusKey.Render(m.statusMsg))
	}

	line := strings.Join(parts, m.theme.StatusKey.Render(" | "))
	return m.theme.StatusBar.Width(max(1, m.width)).Render(line)
}

func names(options []model.Option) string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Name
	}
	return strings.Join(out, ", ")
}
