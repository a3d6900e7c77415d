// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fuzzy defines the matcher contract consumed by the picker and ships
// a default scoring matcher.
//
// A Matcher returns candidates ranked by relevance, each with the character
// ranges of the candidate name that matched the query. Ranges are reported
// in rune indices with an INCLUSIVE end; consumers normalize with
// MatchRange.End.
//
// # Usage
//
//	m := fuzzy.Default{}
//	for _, r := range m.Match("jo", options) {
//	    fmt.Println(r.Option.Name, r.Ranges)
//	}
package fuzzy
