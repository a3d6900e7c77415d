// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index keeps a SQLite index of the mentions in saved transcripts.
//
// The index is derived data. Sync brings it in line with a transcript store,
// re-reading only transcripts whose update time changed and dropping rows for
// transcripts that no longer exist, so it can be deleted at any time.
//
// # Key Types
//
//   - MentionIndex: the database handle
//   - OptionCount: how often an option was mentioned
//   - Reference: one mention of an option in a sent message
//
// # Usage
//
//	idx, err := index.Open(filepath.Join(dir, "mentions.db"), logger)
//	if err != nil {
//	    return err
//	}
//	defer idx.Close()
//
//	if _, err := idx.Sync(ctx, store); err != nil {
//	    return err
//	}
//	top, err := idx.Top(ctx, 10)
package index
