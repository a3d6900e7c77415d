// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
)

var (
	john   = model.Option{ID: "1", Name: "John"}
	joseph = model.Option{ID: "2", Name: "Joseph"}
)

func newStore(t *testing.T, max int) *TranscriptStore {
	t.Helper()
	s, err := NewTranscriptStore(filepath.Join(t.TempDir(), "history"), max)
	require.NoError(t, err)
	return s
}

func transcript(t *testing.T, texts ...string) *StoredTranscript {
	t.Helper()
	tr := &StoredTranscript{}
	for _, text := range texts {
		tr.Add(text, nil, nil, time.Now())
	}
	return tr
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscriptAdd(t *testing.T) {
	root, err := document.FromText("hi John", []document.LabeledEntity{{Start: 3, End: 7, Option: john}}, document.DefaultMentionKind)
	require.NoError(t, err)

	tr := &StoredTranscript{}
	tr.Add("hi John", []model.Option{john}, root, time.Now())
	tr.Add("John and Joseph", []model.Option{john, joseph}, nil, time.Now())

	assert.Equal(t, []string{"John", "Joseph"}, tr.Mentions)
	assert.Equal(t, 3, tr.MentionCount())
	assert.Equal(t, "hi John", tr.Preview())
	assert.NotEqual(t, tr.Messages[0].ID, tr.Messages[1].ID)
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestSaveAndLoad(t *testing.T) {
	s := newStore(t, 0)
	root, err := document.FromText("hi John", []document.LabeledEntity{{Start: 3, End: 7, Option: john}}, document.DefaultMentionKind)
	require.NoError(t, err)

	tr := &StoredTranscript{}
	tr.Add("hi John", []model.Option{john}, root, time.Now())

	id, err := s.Save(tr)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, "hi John", tr.Summary)
	assert.False(t, tr.CreatedAt.IsZero())

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(s.BaseDir, id+".json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.ID)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, []model.Option{john}, loaded.Messages[0].Entities)
	assert.Equal(t, []model.Option{john},
		document.Entities(loaded.Messages[0].Document, document.DefaultMentionKind, document.DefaultExcludedKind))
}

func TestLoadNotFound(t *testing.T) {
	s := newStore(t, 0)

	_, err := s.Load("missing")
	assert.ErrorIs(t, err, ErrTranscriptNotFound)

	_, err = s.Load("../escape")
	assert.ErrorIs(t, err, ErrTranscriptNotFound)

	assert.ErrorIs(t, s.Delete("missing"), ErrTranscriptNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := newStore(t, 0)

	_, err := s.Save(transcript(t, "first"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = s.Save(transcript(t, "second", "more"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(s.BaseDir, "broken.json"), []byte("{"), 0600))

	metas, err := s.List()
	require.NoError(t, err)
	require.Len(t, metas, 2, "corrupted files are skipped")
	assert.Equal(t, "second", metas[0].Summary)
	assert.Equal(t, 2, metas[0].MessageCount)
	assert.Equal(t, "first", metas[1].Preview)
}

func TestEnforceLimit(t *testing.T) {
	s := newStore(t, 2)

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.Save(transcript(t, text))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := s.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "three", metas[0].Summary)
	assert.Equal(t, "two", metas[1].Summary)
}

func TestResolve(t *testing.T) {
	s := newStore(t, 0)

	a := transcript(t, "alpha")
	a.ID = "aaa111"
	_, err := s.Save(a)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	b := transcript(t, "beta")
	b.ID = "aab222"
	_, err = s.Save(b)
	require.NoError(t, err)

	got, err := s.Resolve("0")
	require.NoError(t, err)
	assert.Equal(t, "aab222", got.ID)

	got, err = s.Resolve("aaa")
	require.NoError(t, err)
	assert.Equal(t, "aaa111", got.ID)

	got, err = s.Resolve("aab222")
	require.NoError(t, err)
	assert.Equal(t, "beta", got.Summary)

	_, err = s.Resolve("aa")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.Resolve("zzz")
	assert.ErrorIs(t, err, ErrTranscriptNotFound)

	_, err = s.Resolve("7")
	assert.ErrorIs(t, err, ErrTranscriptNotFound)
}

func TestSearch(t *testing.T) {
	s := newStore(t, 0)

	tr := &StoredTranscript{}
	tr.Add("ping John", []model.Option{john}, nil, time.Now())
	_, err := s.Save(tr)
	require.NoError(t, err)
	_, err = s.Save(transcript(t, "release notes"))
	require.NoError(t, err)

	found, err := s.Search("JOHN")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ping John", found[0].Summary)

	found, err = s.Search("notes")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = s.Search("")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestClear(t *testing.T) {
	s := newStore(t, 0)
	for _, text := range []string{"a", "b"} {
		_, err := s.Save(transcript(t, text))
		require.NoError(t, err)
	}

	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	metas, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, "No transcripts found.", FormatList(nil))

	out := FormatList([]TranscriptMeta{{
		ID:           "0123456789abcdef",
		CreatedAt:    time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC),
		MessageCount: 3,
		MentionCount: 2,
		Preview:      "ping John",
	}})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "01234567 ")
	assert.Contains(t, lines[1], "2025-03-04 10:30")
	assert.True(t, strings.HasSuffix(lines[1], "ping John"))
}
