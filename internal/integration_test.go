// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal provides integration tests for the complete mention system.
//
// These tests verify end-to-end functionality including:
// - Loading options files
// - Composing mentions through an editor session
// - Encoding documents and extracting their mentions
// - Renaming mentions after an options file reload
// - Skipping excluded regions during extraction
package internal

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/cli"
	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/editor"
	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/options"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const peopleYAML = `options:
  - id: "1"
    name: John
  - id: "2"
    name: Joseph
`

// createOptionsFile writes content to an options file in a temp dir.
func createOptionsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSession builds a session over the options at path.
func newSession(t *testing.T, path string) *editor.Session {
	t.Helper()
	u, err := options.Load(path)
	require.NoError(t, err)

	s, err := editor.NewSession(config.Default().ToMentionConfig(quietLogger()), nil, nil)
	require.NoError(t, err)
	s.SetOptions(u.Options())
	return s
}

// =============================================================================
// COMPOSE AND EXTRACT
// =============================================================================

// TestComposeAndExtract types two mentions, encodes the document and reads
// the mentions back through the extract command.
func TestComposeAndExtract(t *testing.T) {
	s := newSession(t, createOptionsFile(t, "people.yaml", peopleYAML))

	require.NoError(t, s.Type("ping $jos"))
	require.True(t, s.Key(mention.KeyEnter))
	require.NoError(t, s.Type(" and $jo"))
	require.True(t, s.Key(mention.KeyEnter))
	assert.Equal(t, "ping Joseph and John", s.Buffer().Text())

	snap := s.Buffer().Snapshot()
	var doc bytes.Buffer
	require.NoError(t, document.Encode(&doc, &snap))

	var out bytes.Buffer
	err := cli.HandleExtract(cli.IO{In: &doc, Out: &out}, config.Default(), cli.Args{File: "-", JSON: true})
	require.NoError(t, err)

	var got []model.Option
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []model.Option{{ID: "2", Name: "Joseph"}, {ID: "1", Name: "John"}}, got)
}

// TestDecodedDocumentKeepsMentions checks that a decoded snapshot still
// yields the same entities as the live session.
func TestDecodedDocumentKeepsMentions(t *testing.T) {
	s := newSession(t, createOptionsFile(t, "people.yaml", peopleYAML))
	require.NoError(t, s.Type("cc $joseph"))
	require.True(t, s.Key(mention.KeyTab))

	snap := s.Buffer().Snapshot()
	var doc bytes.Buffer
	require.NoError(t, document.Encode(&doc, &snap))

	decoded, err := document.Decode(&doc)
	require.NoError(t, err)
	assert.Equal(t, s.Machine().Entities(),
		document.Entities(decoded.Root, document.DefaultMentionKind, document.DefaultExcludedKind))
}

// =============================================================================
// RELOAD AND RENAME
// =============================================================================

// TestReloadRenamesMentions edits the options file while a mention exists
// and applies the new names.
func TestReloadRenamesMentions(t *testing.T) {
	path := createOptionsFile(t, "people.json", `[{"id":"1","name":"John"},{"id":"2","name":"Joseph"}]`)
	s := newSession(t, path)

	require.NoError(t, s.Type("hey $john"))
	require.True(t, s.Key(mention.KeyEnter))

	reloaded := make(chan *model.Universe, 4)
	w, err := options.Watch(path, func(u *model.Universe, err error) {
		if err != nil {
			return
		}
		select {
		case reloaded <- u:
		default:
		}
	}, quietLogger())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"1","name":"Johnny"},{"id":"2","name":"Joseph"}]`), 0600))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	var u *model.Universe
	select {
	case u = <-reloaded:
	case <-time.After(10 * time.Second):
		t.Fatal("options file was not reloaded")
	}

	s.SetOptions(u.Options())
	n, err := s.RenameOptions()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "hey Johnny", s.Buffer().Text())
}

// =============================================================================
// EXCLUDED REGIONS
// =============================================================================

// TestExcludedRegionSkipped checks that mentions under an excluded element
// are not extracted.
func TestExcludedRegionSkipped(t *testing.T) {
	john := model.Option{ID: "1", Name: "John"}
	joseph := model.Option{ID: "2", Name: "Joseph"}

	root := document.NewElement(document.DocumentType,
		document.NewElement(document.ParagraphType,
			document.NewText("ask "),
			document.NewSpan("a", document.DefaultMentionKind, "John", document.Annotation{Completed: true, Option: john}),
			document.NewText(" "),
			document.NewElement(document.DefaultExcludedKind,
				document.NewText("maybe "),
				document.NewSpan("b", document.DefaultMentionKind, "Joseph", document.Annotation{Completed: true, Option: joseph}),
				document.NewText(""),
			),
			document.NewText(""),
		),
	)

	assert.Equal(t, []model.Option{john},
		document.Entities(root, document.DefaultMentionKind, document.DefaultExcludedKind))
}
