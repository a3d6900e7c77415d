// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/config"
)

func TestConfigGet(t *testing.T) {
	cfg := config.Default()
	var out bytes.Buffer

	require.NoError(t, HandleConfig(&out, cfg, Args{Subcommand: "get", ConfigKey: "ui.max_visible"}))
	assert.Equal(t, "8\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(&out, cfg, Args{Subcommand: "get", ConfigKey: "mention.trigger_character", JSON: true}))
	assert.Equal(t, "\"$\"\n", out.String())

	err := HandleConfig(&out, cfg, Args{Subcommand: "get", ConfigKey: "ui.nope"})
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestConfigSetSaves(t *testing.T) {
	dir := isolate(t)
	cfg := config.Default()
	var out bytes.Buffer

	require.NoError(t, HandleConfig(&out, cfg, Args{Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "light"}))
	assert.Contains(t, out.String(), "ui.theme = light")

	loaded, err := config.LoadFromPath(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Theme)
}

func TestConfigSetJSONPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "alt.json")
	cfg := config.Default()
	var out bytes.Buffer

	require.NoError(t, HandleConfig(&out, cfg, Args{Subcommand: "set", ConfigKey: "ui.width", ConfigVal: "50", ConfigFile: path}))

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.UI.Width)
}

func TestConfigSetInvalid(t *testing.T) {
	isolate(t)
	var out bytes.Buffer

	err := HandleConfig(&out, config.Default(), Args{Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "neon"})
	assert.Equal(t, ExitConfigError, ExitCode(err))

	err = HandleConfig(&out, config.Default(), Args{Subcommand: "set", ConfigKey: "ui.width", ConfigVal: "wide"})
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestConfigPathAndKeys(t *testing.T) {
	dir := isolate(t)
	var out bytes.Buffer

	require.NoError(t, HandleConfig(&out, config.Default(), Args{Subcommand: "path"}))
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(&out, config.Default(), Args{Subcommand: "keys"}))
	keys := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, config.GetAllKeys(), keys)
}

func TestConfigShow(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, HandleConfig(&out, config.Default(), Args{Subcommand: "show"}))
	assert.Contains(t, out.String(), "ui.theme")
	assert.Contains(t, out.String(), "dark")

	out.Reset()
	require.NoError(t, HandleConfig(&out, config.Default(), Args{Subcommand: "show", JSON: true}))
	assert.Contains(t, out.String(), `"trigger_character": "$"`)
}
