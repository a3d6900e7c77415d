// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders stored transcripts to Markdown, HTML or JSON.
//
// Mentions are rendered from each message's document tree: bold in
// Markdown and a span with the option id in HTML. Content inside excluded
// regions is rendered as plain emphasised text.
//
// # Key Types
//
//   - Exporter: Main export interface
//   - Options: Export configuration options
//
// # Usage
//
//	exp, err := export.New("md", export.DefaultOptions())
//	path, err := export.ExportToFile(transcript, exp, opts)
package export
