// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

const usageMarkdown = `# mention

Compose messages with inline mentions. Type the trigger character (` + "`$`" + ` by
default), pick an option from the popup and it becomes a mention.

## Usage

    mention [flags]                 Start the editor (default)
    mention line                    Resolve mentions line by line
    mention extract [FILE|-]        List mentions in a JSON document
    mention config [show]           Show configuration
    mention config get KEY          Print one setting
    mention config set KEY VALUE    Change one setting
    mention config path             Print the config file path
    mention config keys             List setting keys
    mention history [list]          List saved transcripts
    mention history show REF        Print a transcript (index or id)
    mention history export [REF]    Export a transcript (-f md|html|json, -d DIR)
    mention history search QUERY    Find transcripts by text or mention
    mention history delete REF      Delete a transcript
    mention history mentions        Most mentioned options (-n LIMIT)
    mention history refs OPTION     Messages mentioning an option id or name
    mention history clear           Delete all transcripts
    mention version                 Show version

## Flags

    -c, --config FILE     Use FILE instead of ~/.mention/config.toml
    -o, --options FILE    Options file (json, toml or yaml)
    -v, --verbose         Debug logging
        --json            JSON output for line, extract, config and history

## Editor keys

| Key | Action |
| --- | --- |
| Up / Down | Move the highlight |
| Enter / Tab | Insert the highlighted option |
| Esc | Cancel the mention |
| Enter | Send the message when no popup is open |
| F1 | Toggle help |
| Ctrl+C | Quit |

## History

The editor keeps a transcript of sent messages only when ` + "`history.save`" + ` is
on: ` + "`mention config set history.save true`" + `.

## Environment

` + "`MENTION_HOME`" + ` moves the config directory. ` + "`MENTION_TRIGGER`" + `,
` + "`MENTION_OPTIONS_FILE`" + `, ` + "`MENTION_THEME`" + `, ` + "`MENTION_CASE_SENSITIVE`" + ` and
` + "`MENTION_LOG_LEVEL`" + ` override the config file.

Version: %s
`

// Usage returns the help text as markdown.
func Usage() string {
	return fmt.Sprintf(usageMarkdown, Version)
}

// PrintUsage writes the help text, rendered for the terminal when styled
// is true.
func PrintUsage(w io.Writer, styled bool) {
	fmt.Fprint(w, renderMarkdown(Usage(), GetTerminalWidth(), styled))
}

// renderMarkdown renders markdown for terminal display. It returns the
// source unchanged when styled is false or rendering fails.
func renderMarkdown(content string, width int, styled bool) string {
	if !styled {
		return content
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
