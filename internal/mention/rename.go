// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
)

// UpdateOptionNames returns the requests that bring every completed span of
// mentionKind in line with the current name of its option. Spans whose
// option is not in options are left alone.
func UpdateOptionNames(root *document.Node, options []model.Option, mentionKind string) []Request {
	byID := make(map[string]model.Option, len(options))
	for _, o := range options {
		byID[o.ID] = o
	}

	var reqs []Request
	var walk func(n *document.Node, p document.Path)
	walk = func(n *document.Node, p document.Path) {
		if n.IsCompletedSpan(mentionKind) {
			if opt, ok := byID[n.Annotation.Option.ID]; ok && opt.Name != n.Annotation.Option.Name {
				reqs = append(reqs,
					Request{Kind: ReqSetText, Path: p.Child(0), Text: opt.Name},
					Request{Kind: ReqSetAnnotation, Path: p, Annotation: &document.Annotation{Completed: true, Option: opt}},
				)
			}
			return
		}
		for i, c := range n.Children {
			walk(c, p.Child(i))
		}
	}
	if root != nil {
		walk(root, document.Path{})
	}
	return reqs
}

// ApplyOptionNames renames completed spans in the last snapshot to match the
// option universe. It returns the number of spans updated.
func (m *Machine) ApplyOptionNames() (int, error) {
	reqs := UpdateOptionNames(m.snap.Root, m.options, m.cfg.MentionKind)
	if err := ApplyAll(m.host, reqs); err != nil {
		m.log.Error("rename spans failed", "error", err)
		return 0, err
	}
	if len(reqs) > 0 {
		m.log.Info("spans renamed", "count", len(reqs)/2)
	}
	return len(reqs) / 2, nil
}
