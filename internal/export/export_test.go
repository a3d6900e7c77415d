// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/storage"
)

var (
	fixed  = time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	john   = model.Option{ID: "1", Name: "John"}
	joseph = model.Option{ID: "2", Name: "Joseph"}
)

func testOptions() *Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixed }
	return opts
}

// sample has one message with a mention and one with an excluded region.
func sample(t *testing.T) *storage.StoredTranscript {
	t.Helper()
	first, err := document.FromText("ping John about #3", []document.LabeledEntity{{Start: 5, End: 9, Option: john}}, document.DefaultMentionKind)
	require.NoError(t, err)

	second := document.NewElement(document.DocumentType,
		document.NewElement(document.ParagraphType,
			document.NewText("ask "),
			document.NewElement(document.DefaultExcludedKind,
				document.NewSpan("x", document.DefaultMentionKind, "Joseph", document.Annotation{Completed: true, Option: joseph}),
			),
		),
		document.NewElement(document.ParagraphType, document.NewText("<bye>")),
	)

	tr := &storage.StoredTranscript{ID: "t1", Summary: "ping John", CreatedAt: fixed, UpdatedAt: fixed}
	tr.Add("ping John about #3", []model.Option{john}, first, fixed)
	tr.Add("ask Joseph<bye>", nil, second, fixed)
	tr.Add("plain *text*", nil, nil, fixed)
	return tr
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions()).Export(sample(t))
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: ping John\n"))
	assert.Contains(t, md, "exported: 2025-03-04T10:30:00Z")
	assert.Contains(t, md, "- **Mentioned**: John")
	assert.Contains(t, md, "ping **John** about \\#3")
	assert.Contains(t, md, "ask _Joseph_\n\n<bye>")
	assert.Contains(t, md, "plain \\*text\\*")
	assert.Contains(t, md, "### 1 <sub>10:30:00</sub>")
}

func TestMarkdownWithoutMetadata(t *testing.T) {
	opts := testOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sample(t))
	require.NoError(t, err)
	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# ping John\n"))
	assert.Contains(t, md, "### 2\n")
	assert.NotContains(t, md, "Mentioned")
}

func TestHTMLExport(t *testing.T) {
	out, err := NewHTMLExporter(testOptions()).Export(sample(t))
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `<body class="dark-theme">`)
	assert.Contains(t, page, `ping <span class="mention" data-id="1">John</span> about #3`)
	assert.Contains(t, page, `ask <em class="excluded">Joseph</em></p>`)
	assert.Contains(t, page, "<p>&lt;bye&gt;</p>")
	assert.NotContains(t, page, "<bye>")
	assert.Contains(t, page, "March 4, 2025 at 10:30 AM")
}

func TestJSONExportRoundTrip(t *testing.T) {
	tr := sample(t)
	out, err := NewJSONExporter(nil).Export(tr)
	require.NoError(t, err)

	var back storage.StoredTranscript
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, tr.ID, back.ID)
	require.Len(t, back.Messages, 3)
	assert.Equal(t, []model.Option{john},
		document.Entities(back.Messages[0].Document, document.DefaultMentionKind, document.DefaultExcludedKind))
}

func TestEmptyTranscript(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(&storage.StoredTranscript{})
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = NewHTMLExporter(nil).Export(nil)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	for format, ext := range map[string]string{"md": ".md", "Markdown": ".md", "html": ".html", "json": ".json"} {
		exp, err := New(format, nil)
		require.NoError(t, err, format)
		assert.Equal(t, ext, exp.FileExtension())
	}

	_, err := New("pdf", nil)
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	opts := testOptions()
	opts.OutputDir = filepath.Join(t.TempDir(), "out")

	path, err := ExportToFile(sample(t), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, "transcript_ping_John_20250304_103000.md", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**John**")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c_d", sanitizeFilename("a/b:c d"))
	assert.Equal(t, "transcript", sanitizeFilename(""))
	assert.Len(t, []rune(sanitizeFilename(strings.Repeat("x", 80))), 50)
}
