// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/picker"
)

// =============================================================================
// STATES
// =============================================================================

// State is the lifecycle state of the machine.
type State int

const (
	// StateIdle has no open span
	StateIdle State = iota
	// StateSearching has an open, uncompleted span
	StateSearching
	// StateCompleting is held while commit requests are sent
	StateCompleting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateCompleting:
		return "completing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// errNoSpan is returned when the open span cannot be located.
var errNoSpan = errors.New("open span not found")

// openSpan is the in-progress span. The path is a hint re-validated against
// every snapshot; the id is authoritative.
type openSpan struct {
	id       string
	path     document.Path
	deleting bool
}

// =============================================================================
// MACHINE
// =============================================================================

// Machine drives a single mention search at a time. All methods must be
// called from one goroutine.
type Machine struct {
	cfg      Config
	host     Host
	observer Observer
	picker   *picker.Controller
	log      *slog.Logger

	options []model.Option
	state   State
	snap    document.Snapshot
	span    *openSpan
	search  string
	view    ViewState
}

// New creates a machine sending requests to host and view states to
// observer. Zero config fields take their defaults; observer may be nil.
func New(cfg Config, host Host, observer Observer) (*Machine, error) {
	if host == nil {
		return nil, errors.New("mention: host is required")
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Machine{
		cfg:      cfg,
		host:     host,
		observer: observer,
		picker:   picker.New(cfg.Matcher),
		log:      cfg.Logger.With("component", "mention"),
		view:     Hidden(),
	}, nil
}

// Config returns the effective configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// ViewState returns the last emitted view state.
func (m *Machine) ViewState() ViewState {
	return m.view
}

// SearchText returns the current query, without the trigger.
func (m *Machine) SearchText() string {
	return m.search
}

// SetOptions replaces the option universe. An open search is re-run.
func (m *Machine) SetOptions(options []model.Option) {
	m.options = append([]model.Option(nil), options...)
	if m.state == StateSearching {
		m.runSearch()
		m.emit()
	}
}

// Options returns the option universe.
func (m *Machine) Options() []model.Option {
	return append([]model.Option(nil), m.options...)
}

// Entities returns the completed mentions of the last snapshot in document
// order, skipping excluded regions.
func (m *Machine) Entities() []model.Option {
	return document.Entities(m.snap.Root, m.cfg.MentionKind, m.cfg.ExcludedKind)
}

// =============================================================================
// HOST NOTIFICATIONS
// =============================================================================

// BeforeOperation inspects an operation the host is about to apply. It
// returns the operation to apply instead (deletes touching a span are
// widened to the whole span) and whether the machine consumed it, in which
// case the host must not apply it.
func (m *Machine) BeforeOperation(op Operation) (Operation, bool) {
	switch op.Kind {
	case OpInsertText:
		if op.Text != string(m.cfg.Trigger) {
			return op, false
		}
		return op, m.onTrigger(op.At)
	case OpDelete:
		return m.expandDelete(op), false
	}
	return op, false
}

// OnDocumentChange receives the snapshot after every host change.
func (m *Machine) OnDocumentChange(snap document.Snapshot) {
	m.snap = snap
	if m.state != StateSearching {
		return
	}

	path, span, err := m.locate()
	if err != nil {
		if m.span.deleting {
			m.log.Debug("span deleted", "span", m.span.id)
		} else {
			m.log.Warn("open span vanished", "span", m.span.id, "path", m.span.path.String())
		}
		m.reset()
		return
	}
	m.span.path = path

	trigger := string(m.cfg.Trigger)
	text := span.PlainText()
	if !strings.HasPrefix(text, trigger) {
		m.abandon("trigger removed")
		return
	}
	if !snap.Selection.Path.HasPrefix(path) || beforeTrigger(snap.Selection, path) {
		m.abandon("cursor left span")
		return
	}

	m.search = strings.TrimPrefix(text, trigger)
	m.runSearch()
	m.emit()
}

// OnKeyEvent handles navigation, commit and cancel keys while searching.
// It reports whether the key was consumed.
func (m *Machine) OnKeyEvent(ev KeyEvent) bool {
	if m.state != StateSearching {
		return false
	}

	switch ev.Key {
	case KeyUp, KeyDown:
		if m.picker.Len() == 0 {
			return false
		}
		dir := 1
		if ev.Key == KeyUp {
			dir = -1
		}
		m.picker.MoveHighlight(dir)
		m.emit()
		return true

	case KeyTab, KeyEnter:
		opt, ok := m.picker.Highlighted()
		if !ok {
			return false
		}
		return m.commit(opt)

	case KeyEscape:
		m.Cancel()
		return true
	}

	return false
}

// Cancel abandons the open search, removing its span.
func (m *Machine) Cancel() {
	if m.state != StateSearching {
		return
	}
	m.abandon("cancelled")
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// onTrigger opens a span at the caret. It reports whether the trigger was
// consumed.
func (m *Machine) onTrigger(at document.Point) bool {
	if m.state != StateIdle {
		// Single active search: a second trigger is swallowed
		m.log.Debug("trigger ignored", "state", m.state.String())
		return true
	}
	if m.snap.Root == nil {
		return false
	}

	leaf := document.NodeAt(m.snap.Root, at.Path)
	if !leaf.IsText() || len(at.Path) == 0 {
		m.log.Debug("trigger outside text", "point", at.String())
		return false
	}
	parentPath := at.Path.Parent()
	parent := document.NodeAt(m.snap.Root, parentPath)
	if parent.Is(m.cfg.MentionKind) {
		m.log.Debug("trigger inside span ignored", "point", at.String())
		return true
	}

	runes := []rune(leaf.Text)
	if at.Offset < 0 || at.Offset > len(runes) {
		return false
	}

	idx := at.Path.Last()
	spanPath := parentPath.Child(idx + 1)
	id := m.cfg.NewID()
	span := document.NewSpan(id, m.cfg.MentionKind, string(m.cfg.Trigger), document.Annotation{})

	reqs := []Request{
		{Kind: ReqSetText, Path: at.Path, Text: string(runes[:at.Offset])},
		{Kind: ReqInsertNode, Path: parentPath, Index: idx + 1, Node: span},
		{Kind: ReqInsertNode, Path: parentPath, Index: idx + 2, Node: document.NewText(string(runes[at.Offset:]))},
		{Kind: ReqSetSelection, Point: document.Point{Path: spanPath.Child(0), Offset: 1}},
	}
	if err := ApplyAll(m.host, reqs); err != nil {
		m.log.Error("open span failed", "error", err)
		return true
	}

	m.state = StateSearching
	m.span = &openSpan{id: id, path: spanPath}
	m.search = ""
	m.log.Debug("span opened", "span", id, "path", spanPath.String())
	return true
}

// commit writes opt into the open span, completes it and moves the caret
// past it.
func (m *Machine) commit(opt model.Option) bool {
	path, _, err := m.locate()
	if err != nil {
		m.log.Warn("commit on vanished span", "span", m.span.id)
		m.reset()
		return false
	}
	m.state = StateCompleting

	parentPath := path.Parent()
	nextIdx := path.Last() + 1
	reqs := []Request{
		{Kind: ReqSetText, Path: path.Child(0), Text: opt.Name},
		{Kind: ReqSetAnnotation, Path: path, Annotation: &document.Annotation{Completed: true, Option: opt}},
	}
	if next := document.NodeAt(m.snap.Root, parentPath.Child(nextIdx)); !next.IsText() {
		reqs = append(reqs, Request{Kind: ReqInsertNode, Path: parentPath, Index: nextIdx, Node: document.NewText("")})
	}
	reqs = append(reqs, Request{Kind: ReqSetSelection, Point: document.Point{Path: parentPath.Child(nextIdx), Offset: 0}})

	if err := ApplyAll(m.host, reqs); err != nil {
		m.log.Error("commit failed", "span", m.span.id, "error", err)
	} else {
		m.log.Info("mention committed", "span", m.span.id, "option", opt.ID)
	}

	m.reset()
	return true
}

// abandon removes the uncompleted span and returns to Idle.
func (m *Machine) abandon(reason string) {
	if path, _, err := m.locate(); err == nil {
		start, okStart := document.StartPoint(m.snap.Root, path)
		end, okEnd := document.EndPoint(m.snap.Root, path)
		if okStart && okEnd {
			if err := m.host.RemoveRange(document.Range{Anchor: start, Focus: end}); err != nil {
				m.log.Error("remove span failed", "span", m.span.id, "error", err)
			}
		}
	}
	m.log.Debug("search abandoned", "span", m.span.id, "reason", reason)
	m.reset()
}

// reset returns to Idle and hides the picker.
func (m *Machine) reset() {
	m.state = StateIdle
	m.span = nil
	m.search = ""
	m.picker.Reset()
	m.emit()
}

// =============================================================================
// HELPERS
// =============================================================================

// locate finds the open span in the last snapshot: first at its stored path,
// then anywhere by id.
func (m *Machine) locate() (document.Path, *document.Node, error) {
	if m.span == nil || m.snap.Root == nil {
		return nil, nil, errNoSpan
	}

	isOpen := func(n *document.Node) bool {
		return n.Is(m.cfg.MentionKind) && n.ID == m.span.id &&
			(n.Annotation == nil || !n.Annotation.Completed)
	}

	if n := document.NodeAt(m.snap.Root, m.span.path); n != nil && isOpen(n) {
		return m.span.path, n, nil
	}
	if p, n := document.FindByID(m.snap.Root, m.span.id); n != nil && isOpen(n) {
		return p, n, nil
	}
	return nil, nil, errNoSpan
}

// beforeTrigger reports whether sel sits ahead of the trigger character of
// the span at path. That caret is on the span's left edge, outside it.
func beforeTrigger(sel document.Point, path document.Path) bool {
	return sel.Offset == 0 && sel.Path.Equal(path.Child(0))
}

// runSearch recomputes the candidates. A matcher contract violation is
// logged and leaves an empty candidate list.
func (m *Machine) runSearch() {
	if err := m.picker.Search(m.search, m.options); err != nil {
		m.log.Error("match range violation", "query", m.search, "error", err)
	}
}

// emit rebuilds the view state and notifies the observer.
func (m *Machine) emit() {
	vs := Hidden()
	if m.state == StateSearching {
		vs = ViewState{
			Visible:          true,
			SearchText:       m.search,
			Candidates:       m.picker.Candidates(),
			HighlightedIndex: m.picker.HighlightedIndex(),
			Anchor:           m.anchor(),
		}
	}
	m.view = vs
	if m.observer != nil {
		m.observer.OnViewStateChange(vs)
	}
}

func (m *Machine) anchor() Anchor {
	if m.span == nil || m.snap.Root == nil {
		return Anchor{}
	}
	p, ok := document.StartPoint(m.snap.Root, m.span.path)
	if !ok {
		return Anchor{}
	}
	off, _ := document.OffsetOf(m.snap.Root, p)
	return Anchor{Point: p, Offset: off}
}
