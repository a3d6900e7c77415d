// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"fmt"
	"strings"

	"github.com/jeranaias/mention-tui/internal/model"
)

// =============================================================================
// NODE KINDS
// =============================================================================

// Kind tags a node as text or element.
type Kind int

const (
	// KindText is a leaf holding text
	KindText Kind = iota
	// KindElement holds children and an optional annotation
	KindElement
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindText, KindElement:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown node kind %d", int(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "text":
		*k = KindText
	case "element":
		*k = KindElement
	default:
		return fmt.Errorf("unknown node kind %q", string(b))
	}
	return nil
}

// Element types used by the editor.
const (
	DocumentType  = "document"
	ParagraphType = "paragraph"

	// DefaultMentionKind marks a mention span
	DefaultMentionKind = "mention-inline-node"
	// DefaultExcludedKind marks an optional/already-resolved region
	DefaultExcludedKind = "optional-inline-node"
)

// =============================================================================
// NODE
// =============================================================================

// Annotation is the mention data attached to a span element.
type Annotation struct {
	Completed bool         `json:"completed"`
	Option    model.Option `json:"option"`
}

// Node is a document tree node.
type Node struct {
	ID         string      `json:"id,omitempty"`
	Kind       Kind        `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Type       string      `json:"type,omitempty"`
	Children   []*Node     `json:"children,omitempty"`
	Annotation *Annotation `json:"annotation,omitempty"`
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// NewElement creates an element of the given type.
func NewElement(typ string, children ...*Node) *Node {
	return &Node{Kind: KindElement, Type: typ, Children: children}
}

// NewSpan creates a mention span element with a single text child.
func NewSpan(id, kind, text string, ann Annotation) *Node {
	return &Node{
		ID:         id,
		Kind:       KindElement,
		Type:       kind,
		Children:   []*Node{NewText(text)},
		Annotation: &ann,
	}
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == KindText
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// Is reports whether n is an element of the given type.
func (n *Node) Is(typ string) bool {
	return n.IsElement() && n.Type == typ
}

// IsCompletedSpan reports whether n is a completed span of the given type.
func (n *Node) IsCompletedSpan(kind string) bool {
	return n.Is(kind) && n.Annotation != nil && n.Annotation.Completed
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// PlainText concatenates every text leaf below n.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Annotation != nil {
		ann := *n.Annotation
		ann.Option = ann.Option.Clone()
		c.Annotation = &ann
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// OfType returns a predicate matching elements of typ.
func OfType(typ string) func(*Node) bool {
	return func(n *Node) bool { return n.Is(typ) }
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is an immutable observation of a document and its selection.
// Holders must not mutate Root.
type Snapshot struct {
	Root      *Node `json:"document"`
	Selection Point `json:"selection"`
	Version   int   `json:"version"`
}
