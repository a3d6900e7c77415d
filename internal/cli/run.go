// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/options"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
)

// IO bundles the standard streams a command uses.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run executes cmd and returns the process exit code.
func Run(cmd Command, args Args, stdio IO) int {
	err := run(cmd, args, stdio)
	if err != nil {
		fmt.Fprintln(stdio.Err, styles.RenderError(err.Error()))
	}
	return ExitCode(err)
}

func run(cmd Command, args Args, stdio IO) error {
	switch cmd {
	case CmdHelp:
		PrintUsage(stdio.Out, stdio.Out == os.Stdout && IsStdoutTTY() && ColorsEnabled())
		return nil
	case CmdVersion:
		PrintVersion(stdio.Out)
		return nil
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	switch cmd {
	case CmdConfig:
		return HandleConfig(stdio.Out, cfg, args)
	case CmdHistory:
		return HandleHistory(stdio.Out, cfg, args)
	}

	logOut := stdio.Err
	if cmd == CmdTUI {
		logOut = nil
	}
	log, closeLog, err := newLogger(cfg, args.Verbose, logOut)
	if err != nil {
		return commandErr(cmd.String(), "logging", err)
	}
	defer closeLog()
	slog.SetDefault(log)

	switch cmd {
	case CmdLine:
		return HandleLine(stdio, cfg, args, log)
	case CmdExtract:
		return HandleExtract(stdio, cfg, args)
	case CmdTUI:
		return HandleTUI(cfg, log)
	}
	return usagef("unknown command %s", cmd)
}

// loadConfig loads the config file named by --config or the default one,
// then applies --options.
func loadConfig(args Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigFile != "" {
		cfg, err = config.LoadFromPath(args.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.OptionsFile != "" {
		cfg.Options.File = args.OptionsFile
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadUniverse loads the configured options file. No file gives an empty
// universe.
func loadUniverse(cfg *config.Config) (*model.Universe, error) {
	if cfg.Options.File == "" {
		return model.NewUniverse(nil)
	}
	u, err := options.Load(cfg.Options.File)
	if err != nil {
		return nil, commandErr("options", "load", err)
	}
	return u, nil
}
