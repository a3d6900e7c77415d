// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fuzzy

import (
	"sort"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/jeranaias/mention-tui/internal/model"
)

// =============================================================================
// DEFAULT MATCHER
// =============================================================================

// Default is a subsequence matcher with bonuses for consecutive runs,
// word boundaries and a match at the start of the name.
//
// Matching rules:
//   - Each character in the query must appear in order in the name
//   - Consecutive matches get bonus points
//   - Matches at word boundaries get bonus points
//   - Matches at start of string get bonus points
//   - Case-insensitive unless CaseSensitive is set
//
// An empty query matches every candidate with no ranges, in input order.
type Default struct {
	CaseSensitive bool
}

// Match implements Matcher.
func (d Default) Match(query string, candidates []model.Option) []Result {
	results := make([]Result, 0, len(candidates))

	if query == "" {
		for _, c := range candidates {
			results = append(results, Result{Option: c})
		}
		return results
	}

	fold := d.folder()
	queryKeys := keys([]rune(query), fold)

	for _, c := range candidates {
		score, positions, ok := matchRunes(queryKeys, []rune(c.Name), fold)
		if !ok {
			continue
		}
		results = append(results, Result{
			Option: c,
			Ranges: toRanges(positions),
			Score:  score,
		})
	}

	// Ties keep candidate order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// folder returns the per-rune comparison key function.
func (d Default) folder() func(rune) string {
	if d.CaseSensitive {
		return func(r rune) string { return string(r) }
	}
	caser := cases.Fold()
	return func(r rune) string { return caser.String(string(r)) }
}

func keys(runes []rune, fold func(rune) string) []string {
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = fold(r)
	}
	return out
}

// matchRunes scores target against the folded query keys and returns the
// positions of the matched runes.
func matchRunes(queryKeys []string, target []rune, fold func(rune) string) (int, []int, bool) {
	if len(queryKeys) > len(target) {
		return 0, nil, false
	}

	score := 0
	lastMatch := -1
	positions := make([]int, 0, len(queryKeys))
	q := 0

	for pos := 0; pos < len(target) && q < len(queryKeys); pos++ {
		if fold(target[pos]) != queryKeys[q] {
			continue
		}

		matchScore := 1

		// Bonus for consecutive matches
		if lastMatch == pos-1 {
			matchScore += 5
		}

		// Bonus for match at start of target
		if pos == 0 {
			matchScore += 10
		}

		if isWordBoundary(target, pos) {
			matchScore += 7
		}

		score += matchScore
		lastMatch = pos
		positions = append(positions, pos)
		q++
	}

	if q != len(queryKeys) {
		return 0, nil, false
	}

	// Shorter names are better matches
	score -= len(target) / 4

	return score, positions, true
}

// isWordBoundary returns true if the position is at a word boundary.
// A word boundary is:
//   - After a space, slash, dash, or underscore
//   - After a lowercase letter followed by an uppercase letter (camelCase)
func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(runes) {
		return false
	}

	prev := runes[pos-1]
	if prev == ' ' || prev == '/' || prev == '-' || prev == '_' {
		return true
	}

	return unicode.IsLower(prev) && unicode.IsUpper(runes[pos])
}

// toRanges groups sorted positions into inclusive runs.
func toRanges(positions []int) []MatchRange {
	if len(positions) == 0 {
		return nil
	}

	var ranges []MatchRange
	cur := MatchRange{Start: positions[0], EndInclusive: positions[0]}
	for _, p := range positions[1:] {
		if p == cur.EndInclusive+1 {
			cur.EndInclusive = p
			continue
		}
		ranges = append(ranges, cur)
		cur = MatchRange{Start: p, EndInclusive: p}
	}
	return append(ranges, cur)
}
