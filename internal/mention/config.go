// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/fuzzy"
)

// DefaultTrigger opens a mention search.
const DefaultTrigger = '$'

// Config is supplied when a Machine is constructed.
type Config struct {
	// Trigger is the character that opens a search
	Trigger rune

	// MentionKind is the element type of mention spans
	MentionKind string

	// ExcludedKind is the element type whose subtrees are hidden from extraction
	ExcludedKind string

	// Matcher ranks candidates; case sensitivity is the matcher's concern
	Matcher fuzzy.Matcher

	// Logger receives diagnostic events
	Logger *slog.Logger

	// NewID generates ids for new spans
	NewID func() string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Trigger:      DefaultTrigger,
		MentionKind:  document.DefaultMentionKind,
		ExcludedKind: document.DefaultExcludedKind,
		Matcher:      fuzzy.Default{},
		Logger:       slog.Default(),
		NewID:        uuid.NewString,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Trigger == 0 {
		c.Trigger = d.Trigger
	}
	if c.MentionKind == "" {
		c.MentionKind = d.MentionKind
	}
	if c.ExcludedKind == "" {
		c.ExcludedKind = d.ExcludedKind
	}
	if c.Matcher == nil {
		c.Matcher = d.Matcher
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.NewID == nil {
		c.NewID = d.NewID
	}
	return c
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var problems []string
	if c.Trigger == 0 || unicode.IsSpace(c.Trigger) || !unicode.IsPrint(c.Trigger) {
		problems = append(problems, fmt.Sprintf("trigger %q must be a printable non-space character", c.Trigger))
	}
	if c.MentionKind == c.ExcludedKind {
		problems = append(problems, fmt.Sprintf("mention kind and excluded kind are both %q", c.MentionKind))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid mention config: %s", strings.Join(problems, "; "))
	}
	return nil
}
