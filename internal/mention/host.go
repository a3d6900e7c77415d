// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"fmt"

	"github.com/jeranaias/mention-tui/internal/document"
)

// =============================================================================
// HOST CONTRACT
// =============================================================================

// Host is the editable document the machine issues mutation requests to.
// Requests need not apply synchronously; the machine re-derives its state
// from the next snapshot passed to OnDocumentChange.
type Host interface {
	// InsertNode inserts node as the index-th child of the element at parent
	InsertNode(parent document.Path, index int, node *document.Node) error

	// SetText replaces the text of the leaf at path
	SetText(path document.Path, text string) error

	// SetAnnotation replaces the annotation of the element at path
	SetAnnotation(path document.Path, ann *document.Annotation) error

	// RemoveRange deletes the characters in r and any inline element whose
	// text lies entirely inside r
	RemoveRange(r document.Range) error

	// SetSelection moves the caret
	SetSelection(p document.Point) error
}

// =============================================================================
// REQUESTS
// =============================================================================

// RequestKind identifies a host mutation.
type RequestKind int

const (
	ReqInsertNode RequestKind = iota
	ReqSetText
	ReqSetAnnotation
	ReqRemoveRange
	ReqSetSelection
)

func (k RequestKind) String() string {
	switch k {
	case ReqInsertNode:
		return "insert_node"
	case ReqSetText:
		return "set_text"
	case ReqSetAnnotation:
		return "set_annotation"
	case ReqRemoveRange:
		return "remove_range"
	case ReqSetSelection:
		return "set_selection"
	default:
		return fmt.Sprintf("request(%d)", int(k))
	}
}

// Request is a single host mutation, kept as a value so sequences can be
// built, inspected and replayed.
type Request struct {
	Kind       RequestKind
	Path       document.Path
	Index      int
	Node       *document.Node
	Text       string
	Annotation *document.Annotation
	Range      document.Range
	Point      document.Point
}

// Apply sends the request to h.
func (r Request) Apply(h Host) error {
	var err error
	switch r.Kind {
	case ReqInsertNode:
		err = h.InsertNode(r.Path, r.Index, r.Node)
	case ReqSetText:
		err = h.SetText(r.Path, r.Text)
	case ReqSetAnnotation:
		err = h.SetAnnotation(r.Path, r.Annotation)
	case ReqRemoveRange:
		err = h.RemoveRange(r.Range)
	case ReqSetSelection:
		err = h.SetSelection(r.Point)
	default:
		err = fmt.Errorf("unknown request kind %d", int(r.Kind))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", r.Kind, err)
	}
	return nil
}

// ApplyAll sends requests in order and stops at the first failure.
func ApplyAll(h Host, reqs []Request) error {
	for _, r := range reqs {
		if err := r.Apply(h); err != nil {
			return err
		}
	}
	return nil
}
