// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fuzzy defines the matcher contract and a default scoring matcher.
package fuzzy

import (
	"fmt"

	"github.com/jeranaias/mention-tui/internal/model"
)

// =============================================================================
// MATCHER CONTRACT
// =============================================================================

// MatchRange is a run of matched characters in a candidate name.
// Indices are rune offsets; EndInclusive is the index of the last matched rune.
type MatchRange struct {
	Start        int `json:"start"`
	EndInclusive int `json:"end_inclusive"`
}

// End returns the exclusive end index.
func (r MatchRange) End() int {
	return r.EndInclusive + 1
}

// Len returns the number of runes covered by the range.
func (r MatchRange) Len() int {
	return r.End() - r.Start
}

func (r MatchRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.EndInclusive)
}

// Result is a single ranked match.
type Result struct {
	Option model.Option
	Ranges []MatchRange
	Score  int
}

// Matcher ranks candidates against a query.
// Results are ordered by relevance, best first. Ranges within one result
// must not overlap but need not be sorted.
type Matcher interface {
	Match(query string, candidates []model.Option) []Result
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(query string, candidates []model.Option) []Result

// Match calls f(query, candidates).
func (f MatcherFunc) Match(query string, candidates []model.Option) []Result {
	return f(query, candidates)
}
