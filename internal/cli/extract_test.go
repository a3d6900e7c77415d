// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
)

func encodedDocument(t *testing.T) []byte {
	t.Helper()
	root, err := document.FromText("ask John and Joseph", []document.LabeledEntity{
		{Start: 4, End: 8, Option: model.Option{ID: "1", Name: "John"}},
		{Start: 13, End: 19, Option: model.Option{ID: "22", Name: "Joseph"}},
	}, document.DefaultMentionKind)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, document.Encode(&buf, &document.Snapshot{Root: root}))
	return buf.Bytes()
}

func TestExtractJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, encodedDocument(t), 0600))

	var out bytes.Buffer
	err := HandleExtract(IO{Out: &out}, config.Default(), Args{File: path, JSON: true})
	require.NoError(t, err)

	var got []model.Option
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []model.Option{{ID: "1", Name: "John"}, {ID: "22", Name: "Joseph"}}, got)
}

func TestExtractPlainFromStdin(t *testing.T) {
	var out bytes.Buffer
	err := HandleExtract(IO{In: bytes.NewReader(encodedDocument(t)), Out: &out}, config.Default(), Args{File: "-"})
	require.NoError(t, err)
	assert.Equal(t, "1   John\n22  Joseph\n", out.String())
}

func TestExtractEmptyJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeEntities(&out, nil, true))
	assert.Equal(t, "[]\n", out.String())
}

func TestExtractErrors(t *testing.T) {
	var out bytes.Buffer

	err := HandleExtract(IO{Out: &out}, config.Default(), Args{File: filepath.Join(t.TempDir(), "none.json")})
	assert.Equal(t, ExitNotFoundError, ExitCode(err))

	err = HandleExtract(IO{In: strings.NewReader(`{"version":1}`), Out: &out}, config.Default(), Args{File: "-"})
	assert.Equal(t, ExitDataError, ExitCode(err))
}
