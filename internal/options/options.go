// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package options loads the universe of mentionable options from JSON, TOML
// or YAML files and reloads it when the file changes.
//
// A file holds either a bare list of options or a table with an "options"
// list:
//
//	[[options]]
//	id = "1"
//	name = "John"
//
//	[[options]]
//	id = "2"
//	name = "Joseph"
//	extra = { team = "infra" }
package options

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/mention-tui/internal/model"
)

// ErrUnknownFormat is returned for file extensions with no decoder.
var ErrUnknownFormat = errors.New("unknown options file format")

// Format is an options file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// file is the table form of an options file.
type file struct {
	Options []model.Option `json:"options" toml:"options" yaml:"options"`
}

// Load reads and validates the universe at path.
func Load(path string) (*model.Universe, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}

	opts, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	u, err := model.NewUniverse(opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return u, nil
}

// Parse decodes options in the given format. JSON and YAML accept a bare
// list or a table; TOML requires the table form.
func Parse(data []byte, format Format) ([]model.Option, error) {
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var opts []model.Option
			if err := json.Unmarshal(trimmed, &opts); err != nil {
				return nil, err
			}
			return opts, nil
		}
		var f file
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, err
		}
		return f.Options, nil

	case FormatTOML:
		var f file
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, err
		}
		return f.Options, nil

	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		if node.Content[0].Kind == yaml.SequenceNode {
			var opts []model.Option
			if err := node.Content[0].Decode(&opts); err != nil {
				return nil, err
			}
			return opts, nil
		}
		var f file
		if err := node.Content[0].Decode(&f); err != nil {
			return nil, err
		}
		return f.Options, nil
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}
