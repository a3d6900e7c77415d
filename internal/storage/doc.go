// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists transcripts of sent messages.
//
// When history.save is on, each editor run that sends at least one message
// is saved as a transcript. A transcript keeps every message's text, its mentioned
// options and its document tree, so mentions survive a round trip.
//
// # Key Types
//
//   - TranscriptStore: JSON file store with a size limit
//   - StoredTranscript: one run's messages and mentioned names
//   - TranscriptMeta: lightweight metadata for listing
//
// # Usage
//
//	store, err := storage.NewTranscriptStore(dir, 100)
//	t := &storage.StoredTranscript{}
//	t.Add(msg.Text, msg.Entities, msg.Root, time.Now())
//	id, err := store.Save(t)
//
//	metas, err := store.List()
//	t, err = store.Resolve("0")
//
// # Storage Location
//
// Transcripts are stored in ~/.mention/history/ as JSON files unless
// history.dir is set.
package storage
