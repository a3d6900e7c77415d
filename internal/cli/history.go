// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/export"
	"github.com/jeranaias/mention-tui/internal/index"
	"github.com/jeranaias/mention-tui/internal/storage"
	"github.com/jeranaias/mention-tui/internal/ui/chat"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
)

// indexFile is the mention index database inside the history directory.
const indexFile = "mentions.db"

// openStore opens the transcript store named by the config.
func openStore(cfg *config.Config) (*storage.TranscriptStore, error) {
	dir, err := cfg.HistoryDir()
	if err != nil {
		return nil, err
	}
	return storage.NewTranscriptStore(dir, cfg.History.Max)
}

// HandleHistory runs the history subcommands.
func HandleHistory(w io.Writer, cfg *config.Config, args Args) error {
	store, err := openStore(cfg)
	if err != nil {
		return commandErr("history", "open", err)
	}

	switch args.Subcommand {
	case "list", "search":
		metas, err := store.Search(args.Query)
		if err != nil {
			return commandErr("history", args.Subcommand, err)
		}
		if args.JSON {
			return writeJSON(w, metas)
		}
		list := storage.FormatList(metas)
		if !strings.HasSuffix(list, "\n") {
			list += "\n"
		}
		fmt.Fprint(w, list)
		return nil

	case "show":
		t, err := store.Resolve(args.Ref)
		if err != nil {
			return commandErr("history", "show", err)
		}
		if args.JSON {
			return writeJSON(w, t)
		}
		writeTranscript(w, t)
		return nil

	case "export":
		t, err := store.Resolve(args.Ref)
		if err != nil {
			return commandErr("history", "export", err)
		}
		opts := exportOptions(cfg, args.OutDir)
		exp, err := export.New(args.Format, opts)
		if err != nil {
			return usagef("%v", err)
		}
		path, err := export.ExportToFile(t, exp, opts)
		if err != nil {
			return commandErr("history", "export", err)
		}
		fmt.Fprintln(w, styles.RenderSuccess("exported to "+path))
		return nil

	case "delete":
		t, err := store.Resolve(args.Ref)
		if err != nil {
			return commandErr("history", "delete", err)
		}
		if err := store.Delete(t.ID); err != nil {
			return commandErr("history", "delete", err)
		}
		fmt.Fprintln(w, styles.RenderSuccess("deleted "+t.ID))
		return nil

	case "mentions", "refs":
		return queryIndex(w, store, args)

	case "clear":
		n, err := store.Clear()
		if err != nil {
			return commandErr("history", "clear", err)
		}
		fmt.Fprintln(w, styles.RenderSuccess(fmt.Sprintf("removed %d transcripts", n)))
		return nil
	}

	return usagef("unknown history subcommand %q", args.Subcommand)
}

// queryIndex answers mention queries from the index kept beside the
// transcripts, syncing it first.
func queryIndex(w io.Writer, store *storage.TranscriptStore, args Args) error {
	ctx := context.Background()

	idx, err := index.Open(filepath.Join(store.BaseDir, indexFile), slog.Default())
	if err != nil {
		return commandErr("history", args.Subcommand, err)
	}
	defer idx.Close()

	if _, err := idx.Sync(ctx, store); err != nil {
		return commandErr("history", args.Subcommand, err)
	}

	if args.Subcommand == "mentions" {
		counts, err := idx.Top(ctx, args.Limit)
		if err != nil {
			return commandErr("history", "mentions", err)
		}
		if args.JSON {
			return writeJSON(w, counts)
		}
		fmt.Fprintln(w, strings.TrimSuffix(index.FormatTop(counts), "\n"))
		return nil
	}

	refs, err := idx.References(ctx, args.Query)
	if err != nil {
		return commandErr("history", "refs", err)
	}
	if args.JSON {
		return writeJSON(w, refs)
	}
	fmt.Fprintln(w, strings.TrimSuffix(index.FormatReferences(refs), "\n"))
	return nil
}

func exportOptions(cfg *config.Config, outDir string) *export.Options {
	opts := export.DefaultOptions()
	opts.OutputDir = outDir
	opts.MentionKind = cfg.Mention.MentionKind
	opts.ExcludedKind = cfg.Mention.ExcludedKind
	if cfg.UI.Theme == styles.ThemeLight {
		opts.Theme = "light"
	}
	return opts
}

// writeTranscript prints a transcript for the terminal.
func writeTranscript(w io.Writer, t *storage.StoredTranscript) {
	fmt.Fprintf(w, "%s  (%s)\n", t.Summary, t.CreatedAt.Format("2006-01-02 15:04"))
	for _, m := range t.Messages {
		fmt.Fprintf(w, "[%s] %s\n", m.SentAt.Format("15:04"), m.Text)
		if len(m.Entities) > 0 {
			names := make([]string, len(m.Entities))
			for i, e := range m.Entities {
				names[i] = e.String()
			}
			fmt.Fprintln(w, "        "+styles.RenderInfo("mentions: "+strings.Join(names, ", ")))
		}
	}
}

// saveTranscript stores the messages sent during an editor run. Nothing is
// stored when no message was sent.
func saveTranscript(cfg *config.Config, history []chat.Submission, log *slog.Logger) (string, error) {
	if !cfg.History.Save || len(history) == 0 {
		return "", nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return "", err
	}

	t := &storage.StoredTranscript{}
	for _, s := range history {
		t.Add(s.Text, s.Entities, s.Root, s.At)
	}
	id, err := store.Save(t)
	if err != nil {
		return "", err
	}
	log.Info("transcript saved", "id", id, "messages", len(t.Messages))
	return id, nil
}
