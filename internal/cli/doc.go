// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the mention command line.
//
// Commands:
//   - tui (default): full-screen composer with the inline picker
//   - line: resolve "$Name" tokens in stdin lines into mentions
//   - extract: list the mentions of a JSON document
//   - config: show, get, set and locate settings
//   - history: list, show, export, search and delete saved transcripts;
//     query the mention index (mentions, refs)
//   - version, help
//
// # Key Types
//
//   - Command: the parsed subcommand
//   - Args: global flags and subcommand arguments
//   - ArgParser: order-independent flag parsing
//   - IO: the streams a command reads and writes
//
// # Usage
//
//	cmd, args, err := cli.Parse()
//	if err != nil {
//		fmt.Fprintln(os.Stderr, err)
//		os.Exit(cli.ExitCode(err))
//	}
//	os.Exit(cli.Run(cmd, args, cli.StdIO()))
//
// Errors map to exit codes through ExitCode: usage errors exit 2, invalid
// configuration 3, malformed documents or option files 4 and missing files 7.
package cli
