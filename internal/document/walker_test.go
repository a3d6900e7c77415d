// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/model"
)

func mention(id, name string, completed bool) *Node {
	return NewSpan(id, DefaultMentionKind, name, Annotation{
		Completed: completed,
		Option:    model.Option{ID: id, Name: name},
	})
}

func isMention(n *Node) bool  { return n.IsCompletedSpan(DefaultMentionKind) }
func isOptional(n *Node) bool { return n.Is(DefaultExcludedKind) }

func ids(opts []model.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.ID
	}
	return out
}

func TestExtract_DocumentOrder(t *testing.T) {
	// Pre-order positions: root 0, a 1, p2 2, b 3, c 4, p5 5, d 6, p7 7
	p5 := mention("p5", "Five", true)
	p5.Children = append(p5.Children, NewElement("d"))
	root := NewElement(DocumentType,
		NewElement("a", mention("p2", "Two", true)),
		NewElement("b", NewElement("c"), p5),
		mention("p7", "Seven", true),
	)

	got := ExtractAnnotatedEntities(root, isMention, isOptional)
	assert.Equal(t, []string{"p2", "p5", "p7"}, ids(got))

	// Repeated calls observe the same order
	assert.Equal(t, got, ExtractAnnotatedEntities(root, isMention, isOptional))
}

func TestExtract_SkipsExcludedSubtrees(t *testing.T) {
	root := NewElement(DocumentType,
		NewElement(ParagraphType,
			NewText("before "),
			mention("1", "John", true),
			NewElement(DefaultExcludedKind,
				NewText("maybe "),
				mention("2", "Joseph", true),
				NewElement("nested", mention("3", "Mary", true)),
			),
			mention("4", "Linda", true),
		),
	)

	assert.Equal(t, []string{"1", "4"}, ids(Entities(root, DefaultMentionKind, DefaultExcludedKind)))
}

func TestExtract_IgnoresUncompletedSpans(t *testing.T) {
	root := NewElement(DocumentType,
		NewElement(ParagraphType, NewText("a"), mention("1", "$jo", false), NewText("")),
	)
	assert.Empty(t, Entities(root, DefaultMentionKind, DefaultExcludedKind))
}

func TestExtract_NilRoot(t *testing.T) {
	assert.Empty(t, Extract(nil, isMention, isOptional))
}

func TestExtract_RootNotSubjectToExclusion(t *testing.T) {
	root := NewElement(DefaultExcludedKind, mention("1", "John", true))
	assert.Equal(t, []string{"1"}, ids(Entities(root, DefaultMentionKind, DefaultExcludedKind)))
}

func sampleTree() *Node {
	return NewElement(DocumentType,
		NewElement(ParagraphType,
			NewText("hello "),
			mention("1", "John", true),
			NewText(" world"),
		),
	)
}

func TestFindNodeAlongPath(t *testing.T) {
	root := sampleTree()

	tests := []struct {
		name   string
		path   Path
		wantID string
	}{
		{"span path", Path{0, 1}, "1"},
		{"path through span into its text", Path{0, 1, 0}, "1"},
		{"plain text path", Path{0, 0}, ""},
		{"stale index", Path{0, 7}, ""},
		{"stale paragraph", Path{3, 1}, ""},
		{"negative index", Path{-1}, ""},
		{"empty path", Path{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FindNodeAlongPath(tt.path, root, OfType(DefaultMentionKind))
			if tt.wantID == "" {
				assert.Nil(t, n)
				return
			}
			require.NotNil(t, n)
			assert.Equal(t, tt.wantID, n.ID)
		})
	}
}

func TestLocateAlongPath_ReturnsPrefix(t *testing.T) {
	p, n := LocateAlongPath(Path{0, 1, 0}, sampleTree(), OfType(DefaultMentionKind))
	require.NotNil(t, n)
	assert.Equal(t, Path{0, 1}, p)
}

func TestCollectNodesAlongPath(t *testing.T) {
	root := sampleTree()

	nodes := CollectNodesAlongPath(Path{0, 1, 0}, root)
	require.Len(t, nodes, 3)
	assert.Equal(t, ParagraphType, nodes[0].Type)
	assert.Equal(t, "1", nodes[1].ID)
	assert.Equal(t, "John", nodes[2].Text)

	// Truncates where the path goes stale
	partial := CollectNodesAlongPath(Path{0, 2, 5, 1}, root)
	require.Len(t, partial, 2)
	assert.Equal(t, " world", partial[1].Text)

	assert.Empty(t, CollectNodesAlongPath(Path{9}, root))
}

func TestNodeAtAndFindByID(t *testing.T) {
	root := sampleTree()

	assert.Same(t, root, NodeAt(root, Path{}))
	assert.Equal(t, " world", NodeAt(root, Path{0, 2}).Text)
	assert.Nil(t, NodeAt(root, Path{0, 3}))

	p, n := FindByID(root, "1")
	require.NotNil(t, n)
	assert.Equal(t, Path{0, 1}, p)

	p, n = FindByID(root, "missing")
	assert.Nil(t, n)
	assert.Nil(t, p)
}
