// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the application.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: column-aware truncation with an ellipsis
//   - StringWidth, PadRight: display width helpers for picker rows
//   - SafeSubstring, RuneLen: rune-indexed string access
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	row := util.PadRight(util.TruncateWidth(name, 30), 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
