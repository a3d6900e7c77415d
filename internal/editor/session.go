// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"fmt"
	"log/slog"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/model"
)

// maxSyncRounds bounds the notify loop. A round that mutates the buffer
// (an abandoned span being removed) needs one more round to settle.
const maxSyncRounds = 4

// =============================================================================
// SESSION
// =============================================================================

// Session routes user input through the mention machine into a Buffer and
// reports every change back to the machine.
type Session struct {
	buf     *Buffer
	machine *mention.Machine
	log     *slog.Logger
}

// NewSession creates a session over buf. observer receives view states and
// may be nil.
func NewSession(cfg mention.Config, buf *Buffer, observer mention.Observer) (*Session, error) {
	if buf == nil {
		buf = New(cfg.MentionKind)
	}
	m, err := mention.New(cfg, buf, observer)
	if err != nil {
		return nil, fmt.Errorf("create mention machine: %w", err)
	}
	s := &Session{
		buf:     buf,
		machine: m,
		log:     m.Config().Logger.With("component", "editor"),
	}
	s.sync()
	return s, nil
}

// Buffer returns the underlying buffer.
func (s *Session) Buffer() *Buffer {
	return s.buf
}

// Machine returns the mention machine.
func (s *Session) Machine() *mention.Machine {
	return s.machine
}

// SetOptions replaces the option universe.
func (s *Session) SetOptions(options []model.Option) {
	s.machine.SetOptions(options)
}

// Type inserts text at the caret one character at a time, so the trigger is
// seen wherever it appears.
func (s *Session) Type(text string) error {
	for _, r := range text {
		op := mention.InsertText(s.buf.Cursor(), string(r))
		op, consumed := s.machine.BeforeOperation(op)
		if !consumed {
			if err := s.buf.Apply(op); err != nil {
				return fmt.Errorf("type %q: %w", r, err)
			}
		}
		s.sync()
	}
	return nil
}

// InsertLiteral inserts text at the caret without offering it to the
// machine, so a trigger character stays plain text.
func (s *Session) InsertLiteral(text string) error {
	if text == "" {
		return nil
	}
	if err := s.buf.Apply(mention.InsertText(s.buf.Cursor(), text)); err != nil {
		return fmt.Errorf("insert %q: %w", text, err)
	}
	s.sync()
	return nil
}

// Backspace deletes the character before the caret.
func (s *Session) Backspace() error {
	r, ok := s.buf.BackspaceRange()
	if !ok {
		return nil
	}
	return s.delete(r)
}

// DeleteForward deletes the character after the caret.
func (s *Session) DeleteForward() error {
	r, ok := s.buf.DeleteRange()
	if !ok {
		return nil
	}
	return s.delete(r)
}

func (s *Session) delete(r document.Range) error {
	op, _ := s.machine.BeforeOperation(mention.Delete(r))
	if err := s.buf.Apply(op); err != nil {
		return fmt.Errorf("delete %s: %w", op.Range, err)
	}
	s.sync()
	return nil
}

// Key offers a key to the machine and reports whether it was consumed.
func (s *Session) Key(k mention.Key) bool {
	consumed := s.machine.OnKeyEvent(mention.KeyEvent{Key: k})
	if consumed {
		s.sync()
	}
	return consumed
}

// MoveLeft moves the caret left.
func (s *Session) MoveLeft() {
	s.buf.MoveLeft()
	s.sync()
}

// MoveRight moves the caret right.
func (s *Session) MoveRight() {
	s.buf.MoveRight()
	s.sync()
}

// Home moves the caret to the start.
func (s *Session) Home() {
	s.buf.Home()
	s.sync()
}

// End moves the caret to the end.
func (s *Session) End() {
	s.buf.End()
	s.sync()
}

// Message is a submitted document.
type Message struct {
	Text     string
	Entities []model.Option
	Root     *document.Node
}

// Submit returns the document text and its mentions, then clears the buffer.
// An open search is cancelled first.
func (s *Session) Submit() (string, []model.Option) {
	msg := s.SubmitMessage()
	return msg.Text, msg.Entities
}

// SubmitMessage is Submit that also keeps the submitted tree.
func (s *Session) SubmitMessage() Message {
	s.machine.Cancel()
	s.sync()
	msg := Message{
		Text:     s.buf.Text(),
		Entities: s.machine.Entities(),
		Root:     s.buf.Snapshot().Root,
	}
	s.buf.Reset()
	s.sync()
	return msg
}

// RenameOptions applies the current option names to completed mentions.
func (s *Session) RenameOptions() (int, error) {
	n, err := s.machine.ApplyOptionNames()
	s.sync()
	return n, err
}

// sync reports the buffer to the machine until it stops changing.
func (s *Session) sync() {
	for i := 0; i < maxSyncRounds; i++ {
		v := s.buf.Version()
		s.machine.OnDocumentChange(s.buf.Snapshot())
		if s.buf.Version() == v {
			return
		}
	}
	s.log.Warn("document did not settle", "rounds", maxSyncRounds)
}
