// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/util"
)

// HandleExtract decodes a JSON document from args.File ("-" is stdin) and
// prints the options of its completed mentions, skipping excluded regions.
func HandleExtract(stdio IO, cfg *config.Config, args Args) error {
	in := stdio.In
	if args.File != "-" {
		f, err := os.Open(args.File)
		if err != nil {
			return commandErr("extract", "open", err)
		}
		defer f.Close()
		in = f
	}

	snap, err := document.Decode(in)
	if err != nil {
		return commandErr("extract", "decode", err)
	}

	entities := document.Entities(snap.Root, cfg.Mention.MentionKind, cfg.Mention.ExcludedKind)
	return writeEntities(stdio.Out, entities, args.JSON)
}

func writeEntities(w io.Writer, entities []model.Option, asJSON bool) error {
	if asJSON {
		if entities == nil {
			entities = []model.Option{}
		}
		return writeJSON(w, entities)
	}

	width := 2
	for _, e := range entities {
		width = max(width, util.StringWidth(e.ID))
	}
	for _, e := range entities {
		fmt.Fprintf(w, "%s  %s\n", util.PadRight(e.ID, width), e.Name)
	}
	return nil
}
