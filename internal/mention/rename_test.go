// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
)

func TestUpdateOptionNames(t *testing.T) {
	root, err := document.FromText("John and Mary", []document.LabeledEntity{
		{Start: 0, End: 4, Option: model.Option{ID: "1", Name: "John"}},
		{Start: 9, End: 13, Option: model.Option{ID: "3", Name: "Mary"}},
	}, document.DefaultMentionKind)
	require.NoError(t, err)

	options := []model.Option{
		{ID: "1", Name: "Jonathan"},
		{ID: "3", Name: "Mary"},
	}
	reqs := UpdateOptionNames(root, options, document.DefaultMentionKind)

	require.Len(t, reqs, 2, "only the renamed span changes")
	assert.Equal(t, ReqSetText, reqs[0].Kind)
	assert.Equal(t, document.Path{0, 1, 0}, reqs[0].Path)
	assert.Equal(t, "Jonathan", reqs[0].Text)
	assert.Equal(t, ReqSetAnnotation, reqs[1].Kind)
	assert.Equal(t, document.Path{0, 1}, reqs[1].Path)
	assert.Equal(t, "Jonathan", reqs[1].Annotation.Option.Name)
	assert.True(t, reqs[1].Annotation.Completed)
}

func TestUpdateOptionNamesUnknownOption(t *testing.T) {
	root, err := document.FromText("John", []document.LabeledEntity{
		{Start: 0, End: 4, Option: model.Option{ID: "1", Name: "John"}},
	}, document.DefaultMentionKind)
	require.NoError(t, err)

	assert.Empty(t, UpdateOptionNames(root, nil, document.DefaultMentionKind))
	assert.Empty(t, UpdateOptionNames(nil, nil, document.DefaultMentionKind))
}

func TestApplyOptionNames(t *testing.T) {
	m, h := newMachine(t)
	root, err := document.FromText("hi John", []document.LabeledEntity{
		{Start: 3, End: 7, Option: model.Option{ID: "1", Name: "John"}},
	}, document.DefaultMentionKind)
	require.NoError(t, err)
	m.OnDocumentChange(document.Snapshot{Root: root})

	m.SetOptions([]model.Option{{ID: "1", Name: "Johnny"}})
	n, err := m.ApplyOptionNames()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []RequestKind{ReqSetText, ReqSetAnnotation}, h.kinds())
}
