// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import "unicode/utf8"

// =============================================================================
// TEXT LEAVES AND FLAT OFFSETS
// =============================================================================

// Leaf is a text node with its path and flat rune offset in the document.
type Leaf struct {
	Path  Path
	Node  *Node
	Start int
}

// Len returns the rune length of the leaf text.
func (l Leaf) Len() int {
	return utf8.RuneCountInString(l.Node.Text)
}

// End returns the flat offset just past the leaf.
func (l Leaf) End() int {
	return l.Start + l.Len()
}

// Leaves returns every text leaf below root in document order.
func Leaves(root *Node) []Leaf {
	var out []Leaf
	offset := 0
	var walk func(n *Node, p Path)
	walk = func(n *Node, p Path) {
		if n.IsText() {
			l := Leaf{Path: p, Node: n, Start: offset}
			offset = l.End()
			out = append(out, l)
			return
		}
		for i, c := range n.Children {
			walk(c, p.Child(i))
		}
	}
	if root != nil {
		walk(root, Path{})
	}
	return out
}

// OffsetOf converts a point into a flat rune offset.
// It reports false when the point does not address a text leaf or its
// offset is out of bounds.
func OffsetOf(root *Node, p Point) (int, bool) {
	for _, l := range Leaves(root) {
		if !l.Path.Equal(p.Path) {
			continue
		}
		if p.Offset < 0 || p.Offset > l.Len() {
			return 0, false
		}
		return l.Start + p.Offset, true
	}
	return 0, false
}

// Bounds returns the flat [start, end) offsets covered by the node at path.
func Bounds(root *Node, path Path) (int, int, bool) {
	start, end, found := 0, 0, false
	for _, l := range Leaves(root) {
		if !l.Path.HasPrefix(path) {
			continue
		}
		if !found {
			start = l.Start
			found = true
		}
		end = l.End()
	}
	return start, end, found
}

// StartPoint returns the point at the start of the first leaf under path.
func StartPoint(root *Node, path Path) (Point, bool) {
	for _, l := range Leaves(root) {
		if l.Path.HasPrefix(path) {
			return Point{Path: l.Path, Offset: 0}, true
		}
	}
	return Point{}, false
}

// EndPoint returns the point at the end of the last leaf under path.
func EndPoint(root *Node, path Path) (Point, bool) {
	var last *Leaf
	for _, l := range Leaves(root) {
		if l.Path.HasPrefix(path) {
			l := l
			last = &l
		}
	}
	if last == nil {
		return Point{}, false
	}
	return Point{Path: last.Path, Offset: last.Len()}, true
}
