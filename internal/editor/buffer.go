// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor provides an in-memory document buffer that hosts the mention
// state machine, and a Session that drives both from user input.
package editor

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/mention"
)

// Buffer errors
var (
	// ErrInvalidPath indicates a path that does not resolve in the buffer.
	ErrInvalidPath = errors.New("path does not resolve")

	// ErrInvalidPoint indicates a point outside any text leaf.
	ErrInvalidPoint = errors.New("point out of bounds")

	// ErrNotText indicates a text operation on an element.
	ErrNotText = errors.New("node is not a text leaf")

	// ErrNotElement indicates an element operation on a text leaf.
	ErrNotElement = errors.New("node is not an element")
)

// =============================================================================
// BUFFER
// =============================================================================

// Buffer is a mutable document with a caret. It implements mention.Host.
//
// The caret is held as a leaf pointer plus rune offset so it survives
// structural edits; Cursor converts it back to a Point.
type Buffer struct {
	root        *document.Node
	caret       *document.Node
	caretOff    int
	version     int
	mentionKind string
}

var _ mention.Host = (*Buffer)(nil)

// New creates an empty buffer. mentionKind names the element type treated
// as atomic when the caret moves.
func New(mentionKind string) *Buffer {
	return FromRoot(document.Empty(), mentionKind)
}

// FromRoot creates a buffer over a copy of root with the caret at the end.
func FromRoot(root *document.Node, mentionKind string) *Buffer {
	if mentionKind == "" {
		mentionKind = document.DefaultMentionKind
	}
	b := &Buffer{root: root.Clone(), mentionKind: mentionKind}
	b.normalize()
	b.End()
	return b
}

// Snapshot returns an immutable copy of the document and caret.
func (b *Buffer) Snapshot() document.Snapshot {
	return document.Snapshot{
		Root:      b.root.Clone(),
		Selection: b.Cursor(),
		Version:   b.version,
	}
}

// Version increases on every change, including caret moves.
func (b *Buffer) Version() int {
	return b.version
}

// Text returns the plain text of the document.
func (b *Buffer) Text() string {
	return b.root.PlainText()
}

// Cursor returns the caret as a point.
func (b *Buffer) Cursor() document.Point {
	if p := pathOf(b.root, b.caret); p != nil {
		return document.Point{Path: p, Offset: b.caretOff}
	}
	return document.Point{}
}

// CursorOffset returns the caret as a flat rune offset.
func (b *Buffer) CursorOffset() int {
	off, _ := document.OffsetOf(b.root, b.Cursor())
	return off
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.root = document.Empty()
	b.End()
}

// =============================================================================
// HOST PRIMITIVES
// =============================================================================

// InsertNode implements mention.Host.
func (b *Buffer) InsertNode(parent document.Path, index int, node *document.Node) error {
	p := document.NodeAt(b.root, parent)
	if p == nil {
		return fmt.Errorf("insert under %s: %w", parent, ErrInvalidPath)
	}
	if !p.IsElement() {
		return fmt.Errorf("insert under %s: %w", parent, ErrNotElement)
	}
	if index < 0 || index > len(p.Children) {
		return fmt.Errorf("insert at %d under %s: %w", index, parent, ErrInvalidPath)
	}

	children := make([]*document.Node, 0, len(p.Children)+1)
	children = append(children, p.Children[:index]...)
	children = append(children, node.Clone())
	p.Children = append(children, p.Children[index:]...)
	b.version++
	return nil
}

// SetText implements mention.Host.
func (b *Buffer) SetText(path document.Path, text string) error {
	n, err := b.leaf(path)
	if err != nil {
		return err
	}
	n.Text = text
	if n == b.caret {
		b.caretOff = min(b.caretOff, utf8.RuneCountInString(text))
	}
	b.version++
	return nil
}

// SetAnnotation implements mention.Host.
func (b *Buffer) SetAnnotation(path document.Path, ann *document.Annotation) error {
	n := document.NodeAt(b.root, path)
	if n == nil {
		return fmt.Errorf("annotate %s: %w", path, ErrInvalidPath)
	}
	if !n.IsElement() {
		return fmt.Errorf("annotate %s: %w", path, ErrNotElement)
	}
	if ann == nil {
		n.Annotation = nil
	} else {
		c := *ann
		c.Option = c.Option.Clone()
		n.Annotation = &c
	}
	b.version++
	return nil
}

// SetSelection implements mention.Host.
func (b *Buffer) SetSelection(p document.Point) error {
	n, err := b.leaf(p.Path)
	if err != nil {
		return err
	}
	if p.Offset < 0 || p.Offset > utf8.RuneCountInString(n.Text) {
		return fmt.Errorf("select %s: %w", p, ErrInvalidPoint)
	}
	b.caret, b.caretOff = n, p.Offset
	b.version++
	return nil
}

// RemoveRange implements mention.Host. Inline elements whose text lies
// entirely inside the range are removed with it, and adjacent text leaves
// are merged afterwards.
func (b *Buffer) RemoveRange(r document.Range) error {
	start, ok := document.OffsetOf(b.root, r.Start())
	if !ok {
		return fmt.Errorf("remove from %s: %w", r.Start(), ErrInvalidPoint)
	}
	end, ok := document.OffsetOf(b.root, r.End())
	if !ok {
		return fmt.Errorf("remove to %s: %w", r.End(), ErrInvalidPoint)
	}
	if start == end {
		return nil
	}

	caretFlat := b.CursorOffset()
	covered := b.coveredInlines(start, end)

	for _, l := range document.Leaves(b.root) {
		from, to := max(start, l.Start), min(end, l.End())
		if from >= to {
			continue
		}
		runes := []rune(l.Node.Text)
		cutFrom, cutTo := from-l.Start, to-l.Start
		l.Node.Text = string(runes[:cutFrom]) + string(runes[cutTo:])
		if l.Node == b.caret && b.caretOff > cutFrom {
			b.caretOff -= min(b.caretOff, cutTo) - cutFrom
		}
	}

	for _, n := range covered {
		removeNode(b.root, n)
	}

	b.normalize()

	if pathOf(b.root, b.caret) == nil {
		switch {
		case caretFlat >= end:
			caretFlat -= end - start
		case caretFlat > start:
			caretFlat = start
		}
		b.caret, b.caretOff = b.resolve(caretFlat)
	}

	b.version++
	return nil
}

// =============================================================================
// EDITING
// =============================================================================

// Apply performs a host operation, typically one returned by
// mention.Machine.BeforeOperation.
func (b *Buffer) Apply(op mention.Operation) error {
	switch op.Kind {
	case mention.OpInsertText:
		return b.insertText(op.At, op.Text)
	case mention.OpDelete:
		return b.RemoveRange(op.Range)
	}
	return fmt.Errorf("unknown operation kind %d", int(op.Kind))
}

func (b *Buffer) insertText(at document.Point, text string) error {
	n, err := b.leaf(at.Path)
	if err != nil {
		return err
	}
	runes := []rune(n.Text)
	if at.Offset < 0 || at.Offset > len(runes) {
		return fmt.Errorf("insert at %s: %w", at, ErrInvalidPoint)
	}
	n.Text = string(runes[:at.Offset]) + text + string(runes[at.Offset:])
	if n == b.caret && b.caretOff >= at.Offset {
		b.caretOff += utf8.RuneCountInString(text)
	}
	b.version++
	return nil
}

// BackspaceRange returns the range covering the character before the caret.
func (b *Buffer) BackspaceRange() (document.Range, bool) {
	cur := b.Cursor()
	if cur.Offset > 0 {
		return document.Range{
			Anchor: document.Point{Path: cur.Path, Offset: cur.Offset - 1},
			Focus:  cur,
		}, true
	}

	leaves := document.Leaves(b.root)
	for i := b.leafIndex(leaves) - 1; i >= 0; i-- {
		if n := leaves[i].Len(); n > 0 {
			return document.Range{
				Anchor: document.Point{Path: leaves[i].Path, Offset: n - 1},
				Focus:  cur,
			}, true
		}
	}
	return document.Range{}, false
}

// DeleteRange returns the range covering the character after the caret.
func (b *Buffer) DeleteRange() (document.Range, bool) {
	cur := b.Cursor()
	if cur.Offset < utf8.RuneCountInString(b.caret.Text) {
		return document.Range{
			Anchor: cur,
			Focus:  document.Point{Path: cur.Path, Offset: cur.Offset + 1},
		}, true
	}

	leaves := document.Leaves(b.root)
	for i := b.leafIndex(leaves) + 1; i < len(leaves); i++ {
		if leaves[i].Len() > 0 {
			return document.Range{
				Anchor: cur,
				Focus:  document.Point{Path: leaves[i].Path, Offset: 1},
			}, true
		}
	}
	return document.Range{}, false
}

// =============================================================================
// CARET MOVEMENT
// =============================================================================

// MoveLeft moves the caret one character left, jumping over completed spans.
func (b *Buffer) MoveLeft() {
	defer func() { b.version++ }()
	if b.caretOff > 0 {
		b.caretOff--
		return
	}

	leaves := document.Leaves(b.root)
	skipped := false
	for i := b.leafIndex(leaves) - 1; i >= 0; i-- {
		if b.inCompletedSpan(leaves[i].Path) {
			skipped = true
			continue
		}
		n := leaves[i].Len()
		b.caret = leaves[i].Node
		b.caretOff = n
		if !skipped && n > 0 {
			b.caretOff = n - 1
		}
		return
	}
}

// MoveRight moves the caret one character right, jumping over completed spans.
func (b *Buffer) MoveRight() {
	defer func() { b.version++ }()
	if b.caretOff < utf8.RuneCountInString(b.caret.Text) {
		b.caretOff++
		return
	}

	leaves := document.Leaves(b.root)
	skipped := false
	for i := b.leafIndex(leaves) + 1; i < len(leaves); i++ {
		if b.inCompletedSpan(leaves[i].Path) {
			skipped = true
			continue
		}
		b.caret = leaves[i].Node
		b.caretOff = 0
		if !skipped && leaves[i].Len() > 0 {
			b.caretOff = 1
		}
		return
	}
}

// Home moves the caret to the start of the document.
func (b *Buffer) Home() {
	b.caret, b.caretOff = b.resolve(0)
	b.version++
}

// End moves the caret to the end of the document.
func (b *Buffer) End() {
	b.caret, b.caretOff = b.resolve(len([]rune(b.root.PlainText())))
	b.version++
}

// =============================================================================
// INTERNALS
// =============================================================================

func (b *Buffer) leaf(path document.Path) (*document.Node, error) {
	n := document.NodeAt(b.root, path)
	if n == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidPath)
	}
	if !n.IsText() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return n, nil
}

func (b *Buffer) leafIndex(leaves []document.Leaf) int {
	for i, l := range leaves {
		if l.Node == b.caret {
			return i
		}
	}
	return -1
}

func (b *Buffer) inCompletedSpan(path document.Path) bool {
	for _, n := range document.CollectNodesAlongPath(path, b.root) {
		if n.IsCompletedSpan(b.mentionKind) {
			return true
		}
	}
	return false
}

// resolve maps a flat offset to a caret, preferring leaves outside
// completed spans.
func (b *Buffer) resolve(flat int) (*document.Node, int) {
	var last *document.Leaf
	for _, l := range document.Leaves(b.root) {
		if b.inCompletedSpan(l.Path) {
			continue
		}
		l := l
		last = &l
		if l.Start <= flat && flat <= l.End() {
			return l.Node, flat - l.Start
		}
	}
	if last == nil {
		// Only spans left; give the paragraph a leaf to hold the caret
		para := b.root.Child(0)
		t := document.NewText("")
		para.Children = append(para.Children, t)
		return t, 0
	}
	return last.Node, last.Len()
}

// coveredInlines returns the inline elements whose text lies inside
// [start, end).
func (b *Buffer) coveredInlines(start, end int) []*document.Node {
	var out []*document.Node
	var walk func(n *document.Node, p document.Path)
	walk = func(n *document.Node, p document.Path) {
		for i, c := range n.Children {
			cp := p.Child(i)
			if !c.IsElement() {
				continue
			}
			if isInline(c) {
				s, e, ok := document.Bounds(b.root, cp)
				if ok && start <= s && e <= end {
					out = append(out, c)
					continue
				}
			}
			walk(c, cp)
		}
	}
	walk(b.root, document.Path{})
	return out
}

func isInline(n *document.Node) bool {
	return n.IsElement() && n.Type != document.DocumentType && n.Type != document.ParagraphType
}

// normalize merges adjacent text leaves and keeps a text leaf on both sides
// of every inline element, so the caret always has a home next to a span.
func (b *Buffer) normalize() {
	if b.root == nil {
		b.root = document.Empty()
	}
	if len(b.root.Children) == 0 {
		b.root.Children = []*document.Node{document.NewElement(document.ParagraphType)}
	}

	var walk func(n *document.Node)
	walk = func(n *document.Node) {
		for _, c := range n.Children {
			if c.IsElement() {
				walk(c)
			}
		}
		if n.Type == document.DocumentType {
			return
		}

		var out []*document.Node
		for _, c := range n.Children {
			if len(out) > 0 {
				prev := out[len(out)-1]
				if prev.IsText() && c.IsText() {
					if c == b.caret {
						b.caret = prev
						b.caretOff += utf8.RuneCountInString(prev.Text)
					}
					prev.Text += c.Text
					continue
				}
				if prev.IsElement() && c.IsElement() {
					out = append(out, document.NewText(""))
				}
			} else if c.IsElement() {
				out = append(out, document.NewText(""))
			}
			out = append(out, c)
		}
		if len(out) == 0 || out[len(out)-1].IsElement() {
			out = append(out, document.NewText(""))
		}
		n.Children = out
	}
	walk(b.root)
}

// removeNode detaches target from the tree below root.
func removeNode(root, target *document.Node) bool {
	for i, c := range root.Children {
		if c == target {
			root.Children = append(root.Children[:i:i], root.Children[i+1:]...)
			return true
		}
		if removeNode(c, target) {
			return true
		}
	}
	return false
}

// pathOf finds the path of target by identity.
func pathOf(root, target *document.Node) document.Path {
	if root == nil || target == nil {
		return nil
	}
	if root == target {
		return document.Path{}
	}
	for i, c := range root.Children {
		if p := pathOf(c, target); p != nil {
			return append(document.Path{i}, p...)
		}
	}
	return nil
}
