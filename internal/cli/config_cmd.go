// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
)

var (
	// labelStyle is used for setting keys
	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(28)

	// valueStyle is used for setting values
	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)
)

// HandleConfig runs the config subcommands.
func HandleConfig(w io.Writer, cfg *config.Config, args Args) error {
	switch args.Subcommand {
	case "show":
		if args.JSON {
			return writeJSON(w, cfg)
		}
		for _, key := range config.GetAllKeys() {
			v, err := cfg.Get(key)
			if err != nil {
				return commandErr("config", "show", err)
			}
			fmt.Fprintln(w, labelStyle.Render(key)+valueStyle.Render(fmt.Sprint(v)))
		}
		return nil

	case "get":
		v, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return usagef("%v", err)
		}
		if args.JSON {
			data, err := json.Marshal(v)
			if err != nil {
				return commandErr("config", "get", err)
			}
			fmt.Fprintln(w, string(data))
			return nil
		}
		fmt.Fprintln(w, v)
		return nil

	case "set":
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return usagef("%v", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		path, err := configPath(args)
		if err != nil {
			return commandErr("config", "set", err)
		}
		if err := save(cfg, path); err != nil {
			return commandErr("config", "set", err)
		}
		fmt.Fprintln(w, styles.RenderSuccess(fmt.Sprintf("%s = %s (%s)", args.ConfigKey, args.ConfigVal, path)))
		return nil

	case "path":
		path, err := configPath(args)
		if err != nil {
			return commandErr("config", "path", err)
		}
		fmt.Fprintln(w, path)
		return nil

	case "keys":
		fmt.Fprintln(w, strings.Join(config.GetAllKeys(), "\n"))
		return nil
	}

	return usagef("unknown config subcommand %q", args.Subcommand)
}

func configPath(args Args) (string, error) {
	if args.ConfigFile != "" {
		return args.ConfigFile, nil
	}
	return config.ConfigPathTOML()
}

func save(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
