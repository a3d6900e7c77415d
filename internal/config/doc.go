// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - MentionConfig: Trigger character, span kinds and matching
//   - OptionsConfig: Where the option universe comes from
//   - UIConfig: Theme and picker geometry
//   - LogConfig: Log level and TUI log file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MENTION_*)
//   - ~/.mention/config.toml
//   - ~/.mention/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Build the state machine configuration:
//
//	m, err := mention.New(cfg.ToMentionConfig(logger), buf, observer)
package config
