// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"fmt"

	"github.com/jeranaias/mention-tui/internal/model"
)

// LabeledEntity marks the rune range [Start, End) of a text as a mention.
type LabeledEntity struct {
	Start  int          `json:"start"`
	End    int          `json:"end"`
	Option model.Option `json:"option"`
}

// FromText builds a single-paragraph document from plain text and labeled
// entities. Each entity becomes a completed span of mentionKind holding the
// covered text. Entities must be sorted, non-overlapping and in bounds.
// Text leaves always separate spans, including empty ones at the edges.
func FromText(text string, entities []LabeledEntity, mentionKind string) (*Node, error) {
	runes := []rune(text)
	para := NewElement(ParagraphType)

	pos := 0
	for i, e := range entities {
		if e.Start < pos || e.End <= e.Start || e.End > len(runes) {
			return nil, fmt.Errorf("entity %d [%d,%d) for %q: %w", i, e.Start, e.End, e.Option.ID, ErrInvalidEntity)
		}
		para.Children = append(para.Children,
			NewText(string(runes[pos:e.Start])),
			NewSpan(e.Option.ID, mentionKind, string(runes[e.Start:e.End]), Annotation{
				Completed: true,
				Option:    e.Option,
			}),
		)
		pos = e.End
	}
	para.Children = append(para.Children, NewText(string(runes[pos:])))

	return NewElement(DocumentType, para), nil
}

// Empty returns a document with one empty paragraph.
func Empty() *Node {
	return NewElement(DocumentType, NewElement(ParagraphType, NewText("")))
}
