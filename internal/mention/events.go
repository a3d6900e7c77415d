// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/picker"
)

// =============================================================================
// PENDING OPERATIONS
// =============================================================================

// OpKind classifies a pending host operation.
type OpKind int

const (
	// OpInsertText inserts Text at At
	OpInsertText OpKind = iota
	// OpDelete removes Range
	OpDelete
)

// Operation is an edit the host is about to apply.
type Operation struct {
	Kind  OpKind
	At    document.Point
	Text  string
	Range document.Range
}

// InsertText builds an insert operation.
func InsertText(at document.Point, text string) Operation {
	return Operation{Kind: OpInsertText, At: at, Text: text}
}

// Delete builds a delete operation.
func Delete(r document.Range) Operation {
	return Operation{Kind: OpDelete, Range: r}
}

// =============================================================================
// KEYS
// =============================================================================

// Key is a key the machine may consume.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyTab
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyTab:
		return "tab"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	default:
		return "other"
	}
}

// KeyEvent is a key press reported by the host.
type KeyEvent struct {
	Key Key
}

// =============================================================================
// VIEW STATE
// =============================================================================

// Anchor locates the trigger character for the presentation layer.
type Anchor struct {
	// Point is the position of the trigger inside the span text
	Point document.Point
	// Offset is the flat rune offset of the trigger in the document
	Offset int
}

// ViewState is everything a picker renderer needs. It is rebuilt wholesale
// on every change.
type ViewState struct {
	Visible          bool
	SearchText       string
	Candidates       []picker.MatchedOption
	HighlightedIndex int
	Anchor           Anchor
}

// Hidden is the view state of a closed picker.
func Hidden() ViewState {
	return ViewState{HighlightedIndex: -1}
}

// Observer receives view state changes synchronously.
type Observer interface {
	OnViewStateChange(ViewState)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ViewState)

// OnViewStateChange calls f(vs).
func (f ObserverFunc) OnViewStateChange(vs ViewState) {
	f(vs)
}
