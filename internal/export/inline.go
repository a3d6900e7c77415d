// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/storage"
)

// piece is a run of message content with uniform formatting.
type piece struct {
	Text     string
	Mention  *model.Option // set for completed mentions
	Excluded bool          // inside an excluded region
	Break    bool          // paragraph break
}

// pieces flattens a stored message. Messages without a document are a
// single text piece.
func pieces(msg *storage.StoredMessage, opts *Options) []piece {
	if msg.Document == nil {
		return []piece{{Text: msg.Text}}
	}

	var out []piece
	var walk func(n *document.Node, excluded bool)
	walk = func(n *document.Node, excluded bool) {
		switch {
		case n == nil:
		case n.IsText():
			if n.Text != "" {
				out = append(out, piece{Text: n.Text, Excluded: excluded})
			}
		case n.IsCompletedSpan(opts.MentionKind) && !excluded:
			opt := n.Annotation.Option
			out = append(out, piece{Text: n.PlainText(), Mention: &opt})
		default:
			if n.Is(document.ParagraphType) && len(out) > 0 {
				out = append(out, piece{Break: true})
			}
			excluded = excluded || n.Is(opts.ExcludedKind)
			for _, c := range n.Children {
				walk(c, excluded)
			}
		}
	}
	walk(msg.Document, false)
	return out
}
