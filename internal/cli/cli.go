// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLine
	CmdExtract
	CmdConfig
	CmdHistory
	CmdVersion
	CmdHelp
)

func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLine:
		return "line"
	case CmdExtract:
		return "extract"
	case CmdConfig:
		return "config"
	case CmdHistory:
		return "history"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose     bool
	JSON        bool
	ConfigFile  string
	OptionsFile string

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	File       string

	// History
	Ref    string // transcript index, ID or ID prefix
	Query  string
	Format string
	OutDir string
	Limit  int

	// Raw args after the command name
	Raw []string
}

var boolFlags = []string{"verbose", "v", "json", "help", "h", "version"}

// Parse parses os.Args.
func Parse() (Command, Args, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv without the program name. Flags may appear anywhere.
func ParseArgs(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, boolFlags...)

	args := Args{
		Verbose:     p.BoolFlag("verbose", "v"),
		JSON:        p.BoolFlag("json"),
		ConfigFile:  p.Flag("config", "c"),
		OptionsFile: p.Flag("options", "o"),
		Raw:         p.PositionalFrom(1),
	}

	switch {
	case p.BoolFlag("help", "h"):
		return CmdHelp, args, nil
	case p.BoolFlag("version"):
		return CmdVersion, args, nil
	}

	cmd := strings.ToLower(p.Positional(0))
	switch cmd {
	case "", "tui":
		return CmdTUI, args, nil

	case "line", "l":
		return CmdLine, args, nil

	case "extract", "x":
		args.File = p.Positional(1)
		if args.File == "" {
			args.File = "-"
		}
		return CmdExtract, args, nil

	case "config":
		return CmdConfig, args, parseConfigArgs(&args, p)

	case "history", "hist":
		return CmdHistory, args, parseHistoryArgs(&args, p)

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil
	}

	return CmdHelp, args, usagef("unknown command %q", cmd)
}

func parseConfigArgs(args *Args, p *ArgParser) error {
	args.Subcommand = strings.ToLower(p.Positional(1))
	switch args.Subcommand {
	case "", "show":
		args.Subcommand = "show"
	case "path", "keys":
	case "get":
		args.ConfigKey = p.Positional(2)
		if args.ConfigKey == "" {
			return usagef("config get needs a key")
		}
	case "set":
		args.ConfigKey = p.Positional(2)
		args.ConfigVal = strings.Join(p.PositionalFrom(3), " ")
		if args.ConfigKey == "" || p.PositionalCount() < 4 {
			return usagef("config set needs a key and a value")
		}
	default:
		return usagef("unknown config subcommand %q", args.Subcommand)
	}
	return nil
}

func parseHistoryArgs(args *Args, p *ArgParser) error {
	args.Subcommand = strings.ToLower(p.Positional(1))
	switch args.Subcommand {
	case "", "list", "ls":
		args.Subcommand = "list"
	case "clear":
	case "show", "delete", "rm":
		if args.Subcommand == "rm" {
			args.Subcommand = "delete"
		}
		args.Ref = p.Positional(2)
		if args.Ref == "" {
			return usagef("history %s needs a transcript", args.Subcommand)
		}
	case "export":
		args.Ref = p.Positional(2)
		if args.Ref == "" {
			args.Ref = "0"
		}
		args.Format = p.Flag("format", "f")
		if args.Format == "" {
			args.Format = "md"
		}
		args.OutDir = p.Flag("out", "d")
		if args.OutDir == "" {
			args.OutDir = "."
		}
	case "search":
		args.Query = strings.Join(p.PositionalFrom(2), " ")
		if args.Query == "" {
			return usagef("history search needs a query")
		}
	case "mentions", "top":
		args.Subcommand = "mentions"
		if v := p.Flag("limit", "n"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return usagef("invalid --limit %q", v)
			}
			args.Limit = n
		}
	case "refs":
		args.Query = strings.Join(p.PositionalFrom(2), " ")
		if args.Query == "" {
			return usagef("history refs needs an option id or name")
		}
	default:
		return usagef("unknown history subcommand %q", args.Subcommand)
	}
	return nil
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "mention version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}
