// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package picker tracks the live candidate list of a mention search and the
// currently highlighted candidate.
package picker

import (
	"fmt"
	"slices"

	"github.com/jeranaias/mention-tui/internal/fuzzy"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/segment"
)

// =============================================================================
// MATCHED OPTION
// =============================================================================

// MatchedOption is a candidate ready for rendering.
type MatchedOption struct {
	Option      model.Option  `json:"option"`
	Segments    []segment.Run `json:"segments"`
	Highlighted bool          `json:"highlighted"`
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller turns matcher results into candidates and owns highlight
// navigation. It is not safe for concurrent use.
type Controller struct {
	matcher     fuzzy.Matcher
	candidates  []MatchedOption
	highlighted int
}

// New creates a controller. A nil matcher uses fuzzy.Default.
func New(matcher fuzzy.Matcher) *Controller {
	if matcher == nil {
		matcher = fuzzy.Default{}
	}
	return &Controller{matcher: matcher, highlighted: -1}
}

// GetMatchedOptions matches searchText against universe and segments each
// candidate name. Matcher order is preserved and no candidate is highlighted.
// A range the segmenter cannot place is returned as an error wrapping
// segment.ErrUncontainedRange.
func (c *Controller) GetMatchedOptions(searchText string, universe []model.Option) ([]MatchedOption, error) {
	results := c.matcher.Match(searchText, universe)
	out := make([]MatchedOption, 0, len(results))
	for _, r := range results {
		runs, err := segment.Split(r.Option.Name, r.Ranges)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", r.Option.ID, err)
		}
		out = append(out, MatchedOption{Option: r.Option, Segments: runs})
	}
	return out, nil
}

// Search replaces the candidates with the matches for searchText and
// highlights the first one. On error the candidates are cleared.
func (c *Controller) Search(searchText string, universe []model.Option) error {
	matched, err := c.GetMatchedOptions(searchText, universe)
	if err != nil {
		c.Reset()
		return err
	}
	c.candidates = matched
	c.highlighted = -1
	if len(matched) > 0 {
		c.highlighted = 0
	}
	return nil
}

// MoveHighlight moves the highlight by direction, clamped to the candidate
// list. It does not wrap and is a no-op without candidates.
func (c *Controller) MoveHighlight(direction int) {
	if len(c.candidates) == 0 {
		return
	}
	next := c.highlighted + direction
	if next < 0 {
		next = 0
	}
	if next > len(c.candidates)-1 {
		next = len(c.candidates) - 1
	}
	c.highlighted = next
}

// Highlighted returns the highlighted option.
func (c *Controller) Highlighted() (model.Option, bool) {
	if c.highlighted < 0 || c.highlighted >= len(c.candidates) {
		return model.Option{}, false
	}
	return c.candidates[c.highlighted].Option, true
}

// HighlightedIndex returns the highlighted index or -1.
func (c *Controller) HighlightedIndex() int {
	return c.highlighted
}

// Candidates returns a copy of the candidates with Highlighted set on the
// highlighted one. Nothing in the result is shared with the controller.
func (c *Controller) Candidates() []MatchedOption {
	out := make([]MatchedOption, len(c.candidates))
	for i, cand := range c.candidates {
		out[i] = MatchedOption{
			Option:      cand.Option.Clone(),
			Segments:    slices.Clone(cand.Segments),
			Highlighted: i == c.highlighted,
		}
	}
	return out
}

// Len returns the number of candidates.
func (c *Controller) Len() int {
	return len(c.candidates)
}

// Reset returns the controller to its unopened state.
func (c *Controller) Reset() {
	c.candidates = nil
	c.highlighted = -1
}
