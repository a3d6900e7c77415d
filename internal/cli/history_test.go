// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/editor"
	"github.com/jeranaias/mention-tui/internal/index"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/storage"
	"github.com/jeranaias/mention-tui/internal/ui/chat"
)

func submission(t *testing.T, text string, start, end int, opt model.Option) chat.Submission {
	t.Helper()
	var entities []document.LabeledEntity
	var opts []model.Option
	if end > start {
		entities = []document.LabeledEntity{{Start: start, End: end, Option: opt}}
		opts = []model.Option{opt}
	}
	root, err := document.FromText(text, entities, document.DefaultMentionKind)
	require.NoError(t, err)
	return chat.Submission{
		Message: editor.Message{Text: text, Entities: opts, Root: root},
		At:      time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC),
	}
}

func historyConfig(t *testing.T) *config.Config {
	t.Helper()
	isolate(t)
	cfg := config.Default()
	cfg.History.Save = true
	return cfg
}

func TestSaveTranscript(t *testing.T) {
	cfg := historyConfig(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	id, err := saveTranscript(cfg, nil, log)
	require.NoError(t, err)
	assert.Empty(t, id, "nothing sent")

	id, err = saveTranscript(cfg, []chat.Submission{
		submission(t, "hi John", 3, 7, model.Option{ID: "1", Name: "John"}),
		submission(t, "bye", 0, 0, model.Option{}),
	}, log)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	store, err := openStore(cfg)
	require.NoError(t, err)
	tr, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "hi John", tr.Summary)
	assert.Equal(t, []string{"John"}, tr.Mentions)
	assert.Len(t, tr.Messages, 2)

	cfg.History.Save = false
	id, err = saveTranscript(cfg, []chat.Submission{submission(t, "x", 0, 0, model.Option{})}, log)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func seedHistory(t *testing.T, cfg *config.Config) string {
	t.Helper()
	id, err := saveTranscript(cfg, []chat.Submission{
		submission(t, "ping John", 5, 9, model.Option{ID: "1", Name: "John"}),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return id
}

func TestHistoryListAndShow(t *testing.T) {
	cfg := historyConfig(t)
	id := seedHistory(t, cfg)
	var out bytes.Buffer

	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "list"}))
	assert.Contains(t, out.String(), id[:8])
	assert.Contains(t, out.String(), "ping John")

	out.Reset()
	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "list", JSON: true}))
	var metas []storage.TranscriptMeta
	require.NoError(t, json.Unmarshal(out.Bytes(), &metas))
	require.Len(t, metas, 1)
	assert.Equal(t, 1, metas[0].MentionCount)

	out.Reset()
	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "show", Ref: "0"}))
	assert.Contains(t, out.String(), "[10:30] ping John")
	assert.Contains(t, out.String(), "mentions: John (1)")

	err := HandleHistory(&out, cfg, Args{Subcommand: "show", Ref: "5"})
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
}

func TestHistorySearch(t *testing.T) {
	cfg := historyConfig(t)
	seedHistory(t, cfg)
	var out bytes.Buffer

	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "search", Query: "john"}))
	assert.Contains(t, out.String(), "ping John")

	out.Reset()
	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "search", Query: "nobody"}))
	assert.Equal(t, "No transcripts found.\n", out.String())
}

func TestHistoryExport(t *testing.T) {
	cfg := historyConfig(t)
	seedHistory(t, cfg)
	outDir := filepath.Join(t.TempDir(), "exports")
	var out bytes.Buffer

	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "export", Ref: "0", Format: "html", OutDir: outDir}))
	assert.Contains(t, out.String(), "exported to")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".html"))

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<span class="mention" data-id="1">John</span>`)

	err = HandleHistory(&out, cfg, Args{Subcommand: "export", Ref: "0", Format: "pdf", OutDir: outDir})
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestHistoryDeleteAndClear(t *testing.T) {
	cfg := historyConfig(t)
	id := seedHistory(t, cfg)
	seedHistory(t, cfg)
	var out bytes.Buffer

	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "delete", Ref: id}))
	assert.Contains(t, out.String(), "deleted "+id)

	out.Reset()
	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "clear"}))
	assert.Contains(t, out.String(), "removed 1 transcripts")
}

func TestHistoryMentionIndex(t *testing.T) {
	cfg := historyConfig(t)
	seedHistory(t, cfg)
	seedHistory(t, cfg)
	var out bytes.Buffer

	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "mentions", JSON: true}))
	var counts []index.OptionCount
	require.NoError(t, json.Unmarshal(out.Bytes(), &counts))
	assert.Equal(t, []index.OptionCount{{OptionID: "1", Name: "John", Mentions: 2, Transcripts: 2}}, counts)

	out.Reset()
	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "refs", Query: "JOHN"}))
	assert.Equal(t, 2, strings.Count(out.String(), "ping John"))

	out.Reset()
	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "clear"}))
	out.Reset()
	require.NoError(t, HandleHistory(&out, cfg, Args{Subcommand: "mentions"}))
	assert.Equal(t, "No mentions indexed.\n", out.String())
}

func TestParseHistoryArgs(t *testing.T) {
	cmd, args, err := ParseArgs([]string{"history"})
	require.NoError(t, err)
	assert.Equal(t, CmdHistory, cmd)
	assert.Equal(t, "list", args.Subcommand)

	_, args, err = ParseArgs([]string{"history", "export", "-f", "json", "-d", "/tmp/x"})
	require.NoError(t, err)
	assert.Equal(t, "0", args.Ref)
	assert.Equal(t, "json", args.Format)
	assert.Equal(t, "/tmp/x", args.OutDir)

	_, args, err = ParseArgs([]string{"hist", "rm", "abc"})
	require.NoError(t, err)
	assert.Equal(t, "delete", args.Subcommand)
	assert.Equal(t, "abc", args.Ref)

	_, args, err = ParseArgs([]string{"history", "search", "john", "smith"})
	require.NoError(t, err)
	assert.Equal(t, "john smith", args.Query)

	_, args, err = ParseArgs([]string{"history", "top", "-n", "5"})
	require.NoError(t, err)
	assert.Equal(t, "mentions", args.Subcommand)
	assert.Equal(t, 5, args.Limit)

	_, args, err = ParseArgs([]string{"history", "refs", "John", "Smith"})
	require.NoError(t, err)
	assert.Equal(t, "John Smith", args.Query)

	for _, argv := range [][]string{
		{"history", "show"}, {"history", "search"}, {"history", "wipe"},
		{"history", "refs"}, {"history", "mentions", "--limit", "many"},
	} {
		_, _, err := ParseArgs(argv)
		assert.Equal(t, ExitUsageError, ExitCode(err), "%v", argv)
	}
}
