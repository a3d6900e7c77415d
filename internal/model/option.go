// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain value types shared by the mention core.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// OPTION TYPE
// =============================================================================

// Option is an entity that can be mentioned inline.
// Options are supplied by the embedding application and treated as immutable.
type Option struct {
	// ID is unique within a universe
	ID string `json:"id" toml:"id" yaml:"id"`

	// Name is the canonical display name written into a completed span
	Name string `json:"name" toml:"name" yaml:"name"`

	// Extra carries arbitrary application fields through to the payload
	Extra map[string]any `json:"extra,omitempty" toml:"extra,omitempty" yaml:"extra,omitempty"`
}

// Equal reports whether two options have the same id and name.
// Extra fields are not compared.
func (o Option) Equal(other Option) bool {
	return o.ID == other.ID && o.Name == other.Name
}

// String returns a short human readable form.
func (o Option) String() string {
	return fmt.Sprintf("%s (%s)", o.Name, o.ID)
}

// Clone returns a copy whose Extra map is not shared with o.
func (o Option) Clone() Option {
	if o.Extra == nil {
		return o
	}
	extra := make(map[string]any, len(o.Extra))
	for k, v := range o.Extra {
		extra[k] = v
	}
	o.Extra = extra
	return o
}

// =============================================================================
// UNIVERSE
// =============================================================================

// ErrDuplicateID is returned when two options share an id.
var ErrDuplicateID = errors.New("duplicate option id")

// ErrEmptyID is returned when an option has no id.
var ErrEmptyID = errors.New("option id is empty")

// Universe is an ordered set of options with lookup by id.
type Universe struct {
	options []Option
	byID    map[string]int
}

// NewUniverse validates options and builds a universe preserving their order.
func NewUniverse(options []Option) (*Universe, error) {
	u := &Universe{
		options: make([]Option, 0, len(options)),
		byID:    make(map[string]int, len(options)),
	}
	for i, opt := range options {
		if strings.TrimSpace(opt.ID) == "" {
			return nil, fmt.Errorf("option %d (%q): %w", i, opt.Name, ErrEmptyID)
		}
		if _, dup := u.byID[opt.ID]; dup {
			return nil, fmt.Errorf("option %d: %w: %s", i, ErrDuplicateID, opt.ID)
		}
		u.byID[opt.ID] = len(u.options)
		u.options = append(u.options, opt)
	}
	return u, nil
}

// Options returns the options in their original order.
func (u *Universe) Options() []Option {
	if u == nil {
		return nil
	}
	out := make([]Option, len(u.options))
	copy(out, u.options)
	return out
}

// Lookup returns the option with the given id.
func (u *Universe) Lookup(id string) (Option, bool) {
	if u == nil {
		return Option{}, false
	}
	i, ok := u.byID[id]
	if !ok {
		return Option{}, false
	}
	return u.options[i], true
}

// Len returns the number of options.
func (u *Universe) Len() int {
	if u == nil {
		return 0
	}
	return len(u.options)
}
