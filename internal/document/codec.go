// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"encoding/json"
	"fmt"
	"io"
)

// =============================================================================
// SNAPSHOT BOUNDARY
// =============================================================================

// Decode reads a JSON snapshot and validates its tree.
// A missing selection defaults to the start of the first text leaf.
func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if snap.Root == nil {
		return nil, ValidationErrors{{Path: Path{}, Message: "missing document"}}
	}
	if err := Validate(snap.Root); err != nil {
		return nil, err
	}
	if snap.Selection.Path == nil {
		if p, ok := StartPoint(snap.Root, Path{}); ok {
			snap.Selection = p
		}
	}
	return &snap, nil
}

// Encode writes snap as indented JSON.
func Encode(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// Validate checks the tagged-variant shape of every node:
//   - text leaves have no children, type or annotation
//   - elements have a type
//   - completed annotations carry an option id
func Validate(root *Node) error {
	var errs ValidationErrors
	var walk func(n *Node, p Path)
	walk = func(n *Node, p Path) {
		if n == nil {
			errs = append(errs, ValidationError{Path: p, Message: "nil node"})
			return
		}
		switch n.Kind {
		case KindText:
			if len(n.Children) > 0 {
				errs = append(errs, ValidationError{Path: p, Message: "text node has children"})
			}
			if n.Type != "" {
				errs = append(errs, ValidationError{Path: p, Message: "text node has a type"})
			}
			if n.Annotation != nil {
				errs = append(errs, ValidationError{Path: p, Message: "text node has an annotation"})
			}
		case KindElement:
			if n.Type == "" {
				errs = append(errs, ValidationError{Path: p, Message: "element has no type"})
			}
			if n.Annotation != nil && n.Annotation.Completed && n.Annotation.Option.ID == "" {
				errs = append(errs, ValidationError{Path: p, Message: "completed annotation without option id"})
			}
			for i, c := range n.Children {
				walk(c, p.Child(i))
			}
		default:
			errs = append(errs, ValidationError{Path: p, Message: fmt.Sprintf("unknown kind %s", n.Kind)})
		}
	}
	walk(root, Path{})

	if len(errs) > 0 {
		return errs
	}
	return nil
}
