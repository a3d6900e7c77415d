// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/peterh/liner"

	"github.com/jeranaias/mention-tui/internal/config"
	"github.com/jeranaias/mention-tui/internal/editor"
	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/options"
	"github.com/jeranaias/mention-tui/internal/picker"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
)

// =============================================================================
// LINE MODE
// =============================================================================

// lineMode resolves "$Name" tokens in each input line into mentions.
type lineMode struct {
	session *editor.Session
	out     io.Writer
	json    bool
	log     *slog.Logger

	mu      sync.Mutex
	pending *model.Universe
}

// HandleLine runs line mode. On a terminal the prompt has history and Tab
// completes the name after the trigger; otherwise lines are read from
// stdin until EOF.
func HandleLine(stdio IO, cfg *config.Config, args Args, log *slog.Logger) error {
	u, err := loadUniverse(cfg)
	if err != nil {
		return err
	}

	s, err := editor.NewSession(cfg.ToMentionConfig(log), nil, nil)
	if err != nil {
		return commandErr("line", "start", err)
	}
	s.SetOptions(u.Options())

	lm := &lineMode{session: s, out: stdio.Out, json: args.JSON, log: log}

	if cfg.Options.File != "" && cfg.Options.Watch {
		w, err := options.Watch(cfg.Options.File, lm.onReload, log)
		if err != nil {
			log.Warn("options watch unavailable", "path", cfg.Options.File, "error", err)
		} else {
			defer w.Close()
		}
	}

	if stdio.In == os.Stdin && IsTTY() {
		return lm.interactive()
	}
	return lm.scan(stdio.In)
}

// onReload is called from the watcher goroutine; the universe is applied
// before the next line.
func (lm *lineMode) onReload(u *model.Universe, err error) {
	if err != nil {
		return
	}
	lm.mu.Lock()
	lm.pending = u
	lm.mu.Unlock()
}

func (lm *lineMode) applyPending() {
	lm.mu.Lock()
	u := lm.pending
	lm.pending = nil
	lm.mu.Unlock()

	if u != nil {
		lm.session.SetOptions(u.Options())
		lm.log.Debug("options applied", "count", u.Len())
	}
}

// scan handles non-interactive input.
func (lm *lineMode) scan(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := lm.handle(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// interactive reads lines with liner.
func (lm *lineMode) interactive() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	m := lm.session.Machine()
	line.SetWordCompleter(completeMention(picker.New(m.Config().Matcher), m.Config().Trigger, m.Options))

	historyFile := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(dir, "line_history")
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer lm.saveHistory(line, historyFile)

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return commandErr("line", "read", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if err := lm.handle(input); err != nil {
			return err
		}
	}
}

func (lm *lineMode) saveHistory(line *liner.State, path string) {
	if path == "" || config.EnsureConfigDir() != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}

func (lm *lineMode) handle(input string) error {
	lm.applyPending()
	msg, err := resolveLine(lm.session, input)
	if err != nil {
		return commandErr("line", "resolve", err)
	}
	return writeMessage(lm.out, msg, lm.json)
}

// lineOutput is the JSON form of a resolved line.
type lineOutput struct {
	Text     string         `json:"text"`
	Entities []model.Option `json:"entities"`
}

func writeMessage(w io.Writer, msg editor.Message, asJSON bool) error {
	if asJSON {
		entities := msg.Entities
		if entities == nil {
			entities = []model.Option{}
		}
		return json.NewEncoder(w).Encode(lineOutput{Text: msg.Text, Entities: entities})
	}

	fmt.Fprintln(w, msg.Text)
	if len(msg.Entities) > 0 {
		names := make([]string, len(msg.Entities))
		for i, e := range msg.Entities {
			names[i] = e.String()
		}
		fmt.Fprintln(w, styles.RenderInfo("mentions: "+strings.Join(names, ", ")))
	}
	return nil
}

// =============================================================================
// RESOLUTION
// =============================================================================

// resolveLine feeds input through the session. A trigger followed by a
// known option name becomes a mention of that option; any other trigger is
// kept as text. The session is left empty.
func resolveLine(s *editor.Session, input string) (editor.Message, error) {
	trigger := s.Machine().Config().Trigger
	runes := []rune(input)

	for i := 0; i < len(runes); {
		if runes[i] == trigger {
			if opt, n, ok := longestName(runes[i+1:], s.Machine().Options()); ok {
				if err := pick(s, string(runes[i+1:i+1+n]), opt); err != nil {
					return editor.Message{}, err
				}
				i += 1 + n
				continue
			}
			if err := s.InsertLiteral(string(trigger)); err != nil {
				return editor.Message{}, err
			}
			i++
			continue
		}

		j := i
		for j < len(runes) && runes[j] != trigger {
			j++
		}
		if err := s.Type(string(runes[i:j])); err != nil {
			return editor.Message{}, err
		}
		i = j
	}

	return s.SubmitMessage(), nil
}

// longestName finds the longest option name that prefixes rest, ignoring
// case and ending at a word boundary.
func longestName(rest []rune, opts []model.Option) (model.Option, int, bool) {
	var best model.Option
	bestLen := 0
	for _, opt := range opts {
		name := []rune(opt.Name)
		n := len(name)
		if n == 0 || n > len(rest) || n <= bestLen {
			continue
		}
		if !strings.EqualFold(string(rest[:n]), opt.Name) {
			continue
		}
		if n < len(rest) && isWordRune(rest[n]) && isWordRune(rest[n-1]) {
			continue
		}
		best, bestLen = opt, n
	}
	return best, bestLen, bestLen > 0
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// pick opens a search, types the query and commits opt.
func pick(s *editor.Session, query string, opt model.Option) error {
	if err := s.Type(string(s.Machine().Config().Trigger) + query); err != nil {
		return err
	}

	m := s.Machine()
	idx := -1
	for i, c := range m.ViewState().Candidates {
		if c.Option.ID == opt.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.Cancel()
		return fmt.Errorf("option %s not offered for %q", opt.ID, query)
	}

	for i := 0; i < idx; i++ {
		s.Key(mention.KeyDown)
	}
	if !s.Key(mention.KeyEnter) {
		return fmt.Errorf("commit %s failed", opt.ID)
	}
	return nil
}

// =============================================================================
// COMPLETION
// =============================================================================

// completeMention completes the word after the last trigger before the
// cursor with matching option names.
func completeMention(ctrl *picker.Controller, trigger rune, universe func() []model.Option) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		runes := []rune(line)
		if pos > len(runes) {
			pos = len(runes)
		}
		before, tail := runes[:pos], string(runes[pos:])

		idx := -1
		for i := len(before) - 1; i >= 0; i-- {
			if before[i] == trigger {
				idx = i
				break
			}
		}
		if idx < 0 {
			return string(before), nil, tail
		}

		matched, err := ctrl.GetMatchedOptions(string(before[idx+1:]), universe())
		if err != nil || len(matched) == 0 {
			return string(before), nil, tail
		}

		names := make([]string, len(matched))
		for i, m := range matched {
			names[i] = m.Option.Name
		}
		return string(before[:idx+1]), names, tail
	}
}
