// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package segment

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mention-tui/internal/fuzzy"
)

func TestSplit_Joseph(t *testing.T) {
	runs, err := Split("Joseph", []fuzzy.MatchRange{{Start: 0, EndInclusive: 1}})
	require.NoError(t, err)
	assert.Equal(t, []Run{
		{Text: "Jo", Matched: true},
		{Text: "seph", Matched: false},
	}, runs)
}

func TestSplit_Cases(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		ranges []fuzzy.MatchRange
		want   []Run
	}{
		{
			name: "no ranges",
			text: "Mary",
			want: []Run{{Text: "Mary"}},
		},
		{
			name:   "whole text",
			text:   "Mary",
			ranges: []fuzzy.MatchRange{{Start: 0, EndInclusive: 3}},
			want:   []Run{{Text: "Mary", Matched: true}},
		},
		{
			name:   "middle",
			text:   "William",
			ranges: []fuzzy.MatchRange{{Start: 2, EndInclusive: 3}},
			want:   []Run{{Text: "Wi"}, {Text: "ll", Matched: true}, {Text: "iam"}},
		},
		{
			name:   "suffix",
			text:   "David",
			ranges: []fuzzy.MatchRange{{Start: 3, EndInclusive: 4}},
			want:   []Run{{Text: "Dav"}, {Text: "id", Matched: true}},
		},
		{
			name: "unsorted ranges",
			text: "Elizabeth",
			ranges: []fuzzy.MatchRange{
				{Start: 5, EndInclusive: 5},
				{Start: 0, EndInclusive: 1},
			},
			want: []Run{
				{Text: "El", Matched: true},
				{Text: "iza"},
				{Text: "b", Matched: true},
				{Text: "eth"},
			},
		},
		{
			name:   "adjacent ranges stay separate runs",
			text:   "Linda",
			ranges: []fuzzy.MatchRange{{Start: 0, EndInclusive: 0}, {Start: 1, EndInclusive: 1}},
			want:   []Run{{Text: "L", Matched: true}, {Text: "i", Matched: true}, {Text: "nda"}},
		},
		{
			name:   "multibyte runes",
			text:   "Zoë Ångström",
			ranges: []fuzzy.MatchRange{{Start: 2, EndInclusive: 4}},
			want:   []Run{{Text: "Zo"}, {Text: "ë Å", Matched: true}, {Text: "ngström"}},
		},
		{
			name: "empty text",
			text: "",
			want: []Run{{Text: ""}},
		},
		{
			name:   "empty range changes nothing",
			text:   "Joseph",
			ranges: []fuzzy.MatchRange{{Start: 2, EndInclusive: 1}},
			want:   []Run{{Text: "Joseph"}},
		},
		{
			name:   "empty range after a match",
			text:   "Joseph",
			ranges: []fuzzy.MatchRange{{Start: 0, EndInclusive: 1}, {Start: 2, EndInclusive: 1}},
			want:   []Run{{Text: "Jo", Matched: true}, {Text: "seph"}},
		},
		{
			name:   "empty range in empty text",
			text:   "",
			ranges: []fuzzy.MatchRange{{Start: 0, EndInclusive: -1}},
			want:   []Run{{Text: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := Split(tt.text, tt.ranges)
			require.NoError(t, err)
			assert.Equal(t, tt.want, runs)
			assert.Equal(t, tt.text, Join(runs))
		})
	}
}

func TestSplit_ContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		ranges []fuzzy.MatchRange
	}{
		{"past end", "John", []fuzzy.MatchRange{{Start: 3, EndInclusive: 4}}},
		{"negative start", "John", []fuzzy.MatchRange{{Start: -1, EndInclusive: 0}}},
		{"inverted", "John", []fuzzy.MatchRange{{Start: 2, EndInclusive: 0}}},
		{"empty past end", "John", []fuzzy.MatchRange{{Start: 6, EndInclusive: 5}}},
		{
			"overlap with earlier range",
			"Patricia",
			[]fuzzy.MatchRange{{Start: 1, EndInclusive: 3}, {Start: 2, EndInclusive: 5}},
		},
		{
			"straddles two segments",
			"Patricia",
			[]fuzzy.MatchRange{{Start: 3, EndInclusive: 3}, {Start: 1, EndInclusive: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := Split(tt.text, tt.ranges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUncontainedRange))
			assert.Nil(t, runs)
		})
	}
}

func TestSegments_Bounds(t *testing.T) {
	segs, err := Segments("Barbara", []fuzzy.MatchRange{{Start: 3, EndInclusive: 4}})
	require.NoError(t, err)
	require.Len(t, segs, 3)

	prev := 0
	for _, s := range segs {
		assert.Equal(t, prev, s.Start, "segments must be contiguous")
		assert.Less(t, s.Start, s.End)
		prev = s.End
	}
	assert.Equal(t, 7, prev)
}

// randomDisjoint returns up to n disjoint ranges inside [0, length).
func randomDisjoint(rng *rand.Rand, length, n int) []fuzzy.MatchRange {
	var ranges []fuzzy.MatchRange
	pos := 0
	for len(ranges) < n && pos < length {
		start := pos + rng.Intn(length-pos)
		end := start + rng.Intn(length-start)
		ranges = append(ranges, fuzzy.MatchRange{Start: start, EndInclusive: end})
		pos = end + 1 + rng.Intn(2)
	}
	return ranges
}

func TestSplit_RoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdefgh ÅëJ")

	for i := 0; i < 500; i++ {
		length := rng.Intn(20)
		runes := make([]rune, length)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)

		var ranges []fuzzy.MatchRange
		if length > 0 {
			ranges = randomDisjoint(rng, length, 4)
		}
		rng.Shuffle(len(ranges), func(a, b int) { ranges[a], ranges[b] = ranges[b], ranges[a] })

		runs, err := Split(text, ranges)
		require.NoError(t, err, "text=%q ranges=%v", text, ranges)
		require.Equal(t, text, Join(runs))
	}
}

func TestSplit_OrderIndependenceForDisjointRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	text := "Christopher Robin"
	length := len([]rune(text))

	for i := 0; i < 200; i++ {
		ranges := randomDisjoint(rng, length, 5)
		want, err := Segments(text, ranges)
		require.NoError(t, err)

		shuffled := append([]fuzzy.MatchRange(nil), ranges...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Segments(text, shuffled)
		require.NoError(t, err)
		require.Equal(t, want, got, "ranges=%v shuffled=%v", ranges, shuffled)
	}
}
