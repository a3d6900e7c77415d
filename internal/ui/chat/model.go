// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mention-tui/internal/editor"
	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/model"
	"github.com/jeranaias/mention-tui/internal/ui/components"
	"github.com/jeranaias/mention-tui/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model.
type Options struct {
	// Mention configures the mention machine
	Mention mention.Config

	// Theme styles the view; nil uses the auto theme
	Theme *styles.Theme

	// Universe is the initial option set; nil starts empty
	Universe *model.Universe

	// MaxVisible and PickerWidth size the picker popup
	MaxVisible  int
	PickerWidth int

	// Now stamps submissions; nil uses time.Now
	Now func() time.Time
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model of the mention composer: a history of sent
// messages above a single-line editor with an inline mention picker.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Editing
	session *editor.Session
	picker  *components.Picker

	// UI Components
	viewport viewport.Model
	help     help.Model
	keyMap   KeyMap
	showHelp bool

	// History
	history []Submission
	now     func() time.Time

	// Status
	statusMsg string
	lastError error

	log *slog.Logger
}

// New creates a composer model.
func New(opts Options) (Model, error) {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ThemeAuto)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	p := components.NewPicker(theme)
	if opts.MaxVisible > 0 {
		p.SetMaxVisible(opts.MaxVisible)
	}
	if opts.PickerWidth > 0 {
		p.SetWidth(opts.PickerWidth)
	}

	s, err := editor.NewSession(opts.Mention, nil, mention.ObserverFunc(p.SetState))
	if err != nil {
		return Model{}, err
	}
	if opts.Universe != nil {
		s.SetOptions(opts.Universe.Options())
	}

	vp := viewport.New(80, 20)
	vp.SetContent("")

	return Model{
		theme:    theme,
		width:    80,
		height:   24,
		session:  s,
		picker:   p,
		viewport: vp,
		help:     help.New(),
		keyMap:   DefaultKeyMap(),
		now:      now,
		log:      s.Machine().Config().Logger.With("component", "chat"),
	}, nil
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case OptionsReloadedMsg:
		return m.handleOptionsReloaded(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Session returns the editing session.
func (m Model) Session() *editor.Session {
	return m.session
}

// History returns the sent messages, oldest first.
func (m Model) History() []Submission {
	return m.history
}

// ViewState returns the picker state last reported by the machine.
func (m Model) ViewState() mention.ViewState {
	return m.picker.State()
}

// Err returns the last error shown in the status line.
func (m Model) Err() error {
	return m.lastError
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)
	m.help.Width = m.width

	m.viewport.Width = m.width
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleOptionsReloaded(msg OptionsReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastError = fmt.Errorf("reload options: %w", msg.Err)
		return m, nil
	}

	m.session.SetOptions(msg.Universe.Options())
	n, err := m.session.RenameOptions()
	if err != nil {
		m.lastError = fmt.Errorf("rename mentions: %w", err)
		return m, nil
	}

	m.lastError = nil
	m.statusMsg = fmt.Sprintf("%d options loaded", msg.Universe.Len())
	if n > 0 {
		m.statusMsg += fmt.Sprintf(", %d renamed", n)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.history = nil
		m.statusMsg = ""
		m.viewport.SetContent("")
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		if !m.session.Key(mention.KeyUp) {
			m.viewport.LineUp(1)
		}

	case key.Matches(msg, m.keyMap.Down):
		if !m.session.Key(mention.KeyDown) {
			m.viewport.LineDown(1)
		}

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()

	case key.Matches(msg, m.keyMap.Select):
		m.session.Key(mention.KeyTab)

	case key.Matches(msg, m.keyMap.Cancel):
		m.session.Key(mention.KeyEscape)

	case key.Matches(msg, m.keyMap.Submit):
		if !m.session.Key(mention.KeyEnter) {
			return m.submit()
		}

	case key.Matches(msg, m.keyMap.Left):
		m.session.MoveLeft()

	case key.Matches(msg, m.keyMap.Right):
		m.session.MoveRight()

	case key.Matches(msg, m.keyMap.Home):
		m.session.Home()

	case key.Matches(msg, m.keyMap.End):
		m.session.End()

	case key.Matches(msg, m.keyMap.Backspace):
		err = m.session.Backspace()

	case key.Matches(msg, m.keyMap.Delete):
		err = m.session.DeleteForward()

	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		if msg.Alt {
			return m, nil
		}
		err = m.session.Type(string(msg.Runes))
	}

	if err != nil {
		m.log.Error("edit failed", "key", msg.String(), "error", err)
		m.lastError = err
	}
	return m, nil
}

// submit sends the current document to the history.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.session.Buffer().Text() == "" {
		return m, nil
	}

	sub := Submission{Message: m.session.SubmitMessage(), At: m.now()}
	m.history = append(m.history, sub)
	m.lastError = nil
	m.statusMsg = ""
	m.log.Debug("message sent", "length", len([]rune(sub.Text)), "mentions", len(sub.Entities))

	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()

	return m, func() tea.Msg { return SubmittedMsg{Submission: sub} }
}
