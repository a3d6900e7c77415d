// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits text into matched and unmatched runs for highlighting.
//
// Ranges are applied in the order given. Each range must be wholly contained
// by one segment of the list as it stands when the range is applied; a range
// that is not (overlapping an earlier range, or out of bounds) is a matcher
// contract violation and is reported with ErrUncontainedRange rather than
// dropped. An empty range (EndInclusive one less than Start) changes nothing.
package segment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/mention-tui/internal/fuzzy"
)

// ErrUncontainedRange is returned when no current segment contains a range.
var ErrUncontainedRange = errors.New("match range not contained by any segment")

// Segment is a run of text with its rune bounds.
type Segment struct {
	Text    string
	Start   int
	End     int
	Matched bool
}

// Run is a segment stripped of its bounds, ready for rendering.
type Run struct {
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
}

// Split returns the ordered runs of text for the given matcher ranges.
func Split(text string, ranges []fuzzy.MatchRange) ([]Run, error) {
	segs, err := Segments(text, ranges)
	if err != nil {
		return nil, err
	}

	runs := make([]Run, len(segs))
	for i, s := range segs {
		runs[i] = Run{Text: s.Text, Matched: s.Matched}
	}
	return runs, nil
}

// Segments is Split without stripping the rune bounds.
func Segments(text string, ranges []fuzzy.MatchRange) ([]Segment, error) {
	runes := []rune(text)
	segs := []Segment{{Text: text, Start: 0, End: len(runes)}}

	for i, r := range ranges {
		start, end := r.Start, r.End()
		if start < 0 || end < start {
			return nil, fmt.Errorf("range %d %s in %q: %w", i, r, text, ErrUncontainedRange)
		}

		idx := containing(segs, start, end)
		if idx < 0 {
			return nil, fmt.Errorf("range %d %s in %q: %w", i, r, text, ErrUncontainedRange)
		}
		if start == end {
			continue
		}

		segs = splice(segs, idx, split(runes, segs[idx], start, end))
	}

	return segs, nil
}

// containing returns the index of the first segment holding [start, end).
func containing(segs []Segment, start, end int) int {
	for i, s := range segs {
		if s.Start <= start && end <= s.End {
			return i
		}
	}
	return -1
}

// split cuts s into prefix, matched middle and suffix, omitting empty parts.
// The suffix keeps the matched state of s.
func split(runes []rune, s Segment, start, end int) []Segment {
	parts := []Segment{
		{Start: s.Start, End: start, Matched: s.Matched},
		{Start: start, End: end, Matched: true},
		{Start: end, End: s.End, Matched: s.Matched},
	}

	out := parts[:0]
	for _, p := range parts {
		if p.Start == p.End {
			continue
		}
		p.Text = string(runes[p.Start:p.End])
		out = append(out, p)
	}
	return out
}

func splice(segs []Segment, idx int, replacement []Segment) []Segment {
	out := make([]Segment, 0, len(segs)+len(replacement)-1)
	out = append(out, segs[:idx]...)
	out = append(out, replacement...)
	return append(out, segs[idx+1:]...)
}

// Join concatenates the text of runs.
func Join(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
