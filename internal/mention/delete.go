// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"github.com/jeranaias/mention-tui/internal/document"
)

// =============================================================================
// WHOLE-SPAN DELETION
// =============================================================================

// expandDelete widens a delete so that no span is ever partially deleted.
//
// Completed spans are atomic: any overlap widens the delete to the whole
// span. The open span may be edited inside its search text, but a delete
// reaching its trigger character or crossing its boundary removes it whole.
func (m *Machine) expandDelete(op Operation) Operation {
	root := m.snap.Root
	r := op.Range
	if root == nil || r.Collapsed() {
		return op
	}

	start, okStart := document.OffsetOf(root, r.Start())
	end, okEnd := document.OffsetOf(root, r.End())
	if !okStart || !okEnd {
		return op
	}

	newStart, newEnd := r.Start(), r.End()
	widened := false

	widen := func(path document.Path) bool {
		sStart, sEnd, ok := document.Bounds(root, path)
		if !ok || start >= sEnd || end <= sStart {
			return false
		}
		if sStart < start {
			if p, ok := document.StartPoint(root, path); ok {
				newStart = p
			}
		}
		if sEnd > end {
			if p, ok := document.EndPoint(root, path); ok {
				newEnd = p
			}
		}
		widened = true
		return true
	}

	for _, path := range m.spanPaths(root, func(n *document.Node) bool {
		return n.IsCompletedSpan(m.cfg.MentionKind)
	}) {
		widen(path)
	}

	if m.state == StateSearching {
		if path, _, err := m.locate(); err == nil {
			sStart, sEnd, ok := document.Bounds(root, path)
			// Strictly inside the search text is an ordinary edit
			if ok && !(start > sStart && end <= sEnd) && widen(path) {
				m.span.deleting = true
			}
		}
	}

	if !widened {
		return op
	}
	out := op
	out.Range = document.Range{Anchor: newStart, Focus: newEnd}
	m.log.Debug("delete widened", "from", r.String(), "to", out.Range.String())
	return out
}

// spanPaths returns the paths of every node satisfying match, in document
// order, without exclusions.
func (m *Machine) spanPaths(root *document.Node, match func(*document.Node) bool) []document.Path {
	var out []document.Path
	var walk func(n *document.Node, p document.Path)
	walk = func(n *document.Node, p document.Path) {
		if match(n) {
			out = append(out, p)
		}
		for i, c := range n.Children {
			walk(c, p.Child(i))
		}
	}
	walk(root, document.Path{})
	return out
}
