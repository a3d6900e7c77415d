// mention - compose messages with inline mentions in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/mention-tui/internal/cli"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		fmt.Fprintln(os.Stderr, "Run 'mention help' for usage.")
		os.Exit(cli.ExitCode(err))
	}

	os.Exit(cli.Run(cmd, args, cli.StdIO()))
}
