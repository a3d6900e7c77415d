// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/options"
	"github.com/jeranaias/mention-tui/internal/ui/chat"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
)

// HandleTUI runs the full-screen composer until the user quits.
func HandleTUI(cfg *config.Config, log *slog.Logger) error {
	if err := RequiresTTY("start the editor"); err != nil {
		return err
	}

	u, err := loadUniverse(cfg)
	if err != nil {
		return err
	}

	m, err := chat.New(chat.Options{
		Mention:     cfg.ToMentionConfig(log),
		Theme:       styles.NewTheme(cfg.UI.Theme),
		Universe:    u,
		MaxVisible:  cfg.UI.MaxVisible,
		PickerWidth: cfg.UI.Width,
	})
	if err != nil {
		return commandErr("tui", "start", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if cfg.Options.File != "" && cfg.Options.Watch {
		w, err := options.Watch(cfg.Options.File, func(u *model.Universe, err error) {
			p.Send(chat.OptionsReloadedMsg{Universe: u, Err: err})
		}, log)
		if err != nil {
			log.Warn("options watch unavailable", "path", cfg.Options.File, "error", err)
		} else {
			defer w.Close()
		}
	}

	log.Info("editor started", "options", u.Len(), "theme", cfg.UI.Theme)
	final, err := p.Run()
	if err != nil {
		return commandErr("tui", "run", err)
	}

	if fm, ok := final.(chat.Model); ok {
		if _, err := saveTranscript(cfg, fm.History(), log); err != nil {
			log.Warn("transcript not saved", "error", err)
		}
	}
	return nil
}
