// Package tui implements the Bubble Tea interface for the kanban board.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/config"
	"github.com/hay-kot/kanban/internal/store/jsonfile"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateAwaitingInput
	stateShowingHelp
	stateShowingDetail
)

// Store persists the board for the TUI. *kanban.BoardService implements it.
type Store interface {
	Save(ctx context.Context, b *board.Board) error
	Reload(ctx context.Context) (*board.Board, error)
	Changed() bool
}

// Options configures the TUI model.
type Options struct {
	Config *config.Config
	Store  Store
	Path   string

	// Warnings are shown in the status line on start, most recent last.
	Warnings []string

	// Events delivers board file changes made by other processes. Nil
	// disables reloading.
	Events <-chan jsonfile.FileEvent

	Now    func() time.Time
	Logger zerolog.Logger
}

// boardFileChangedMsg is sent when the board file changed on disk.
type boardFileChangedMsg struct {
	event jsonfile.FileEvent
}

// Model is the Bubble Tea model for the board.
type Model struct {
	board  *board.Board
	store  Store
	path   string
	events <-chan jsonfile.FileEvent

	keys       KeyMap
	help       help.Model
	dateFormat string
	now        func() time.Time
	log        zerolog.Logger

	state  UIState
	prompt addPrompt
	detail *DetailModal

	width  int
	height int

	dirty   bool
	status  string
	warning string
}

// New creates a model around an opened board.
func New(b *board.Board, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		board:      b,
		store:      opts.Store,
		path:       opts.Path,
		events:     opts.Events,
		keys:       NewKeyMap(cfg.Keybindings),
		help:       help.New(),
		dateFormat: cfg.DateFormat,
		now:        now,
		log:        opts.Logger,
		state:      stateNormal,
	}

	if n := len(opts.Warnings); n > 0 {
		m.warning = opts.Warnings[n-1]
	}

	return m
}

// Board returns the board the model operates on.
func (m Model) Board() *board.Board {
	return m.board
}

// Dirty reports whether the board has changes that were not saved.
func (m Model) Dirty() bool {
	return m.dirty
}

// Init starts listening for board file changes.
func (m Model) Init() tea.Cmd {
	return m.waitForFileChange()
}

func (m Model) waitForFileChange() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return boardFileChangedMsg{event: ev}
	}
}

// Update applies one message to the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case boardFileChangedMsg:
		return m.handleFileChanged(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateAwaitingInput {
		var cmd tea.Cmd
		m.prompt.input, cmd = m.prompt.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	if m.detail != nil {
		m.detail.Resize(m.width, m.height)
	}
	return m, nil
}

func (m Model) handleFileChanged(msg boardFileChangedMsg) (tea.Model, tea.Cmd) {
	next := m.waitForFileChange()

	if m.store == nil || !m.store.Changed() {
		return m, next
	}

	if m.dirty {
		m.warning = "board file changed on disk; saving will overwrite those changes"
		return m, next
	}

	b, err := m.store.Reload(context.Background())
	if err != nil {
		m.log.Warn().Err(err).Str("path", msg.event.Path).Msg("reload board")
		m.warning = fmt.Sprintf("board file changed but could not be reloaded: %v", err)
		return m, next
	}

	if t, ok := m.board.SelectedTask(); ok {
		b.SelectTask(t.ID)
	} else {
		b.SelectColumn(m.board.SelectedColumn())
	}
	m.board = b
	m.status = "reloaded board from disk"
	m.log.Debug().Str("path", msg.event.Path).Msg("board reloaded")

	return m, next
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch m.state {
	case stateAwaitingInput:
		return m.handlePromptKey(msg, keyStr)
	case stateShowingHelp:
		return m.handleHelpKey(msg, keyStr)
	case stateShowingDetail:
		return m.handleDetailKey(msg, keyStr)
	}

	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, ok := m.keys.Resolve(msg)
	if !ok {
		return m, nil
	}

	m.status = ""

	switch action {
	case config.ActionPrevColumn:
		m.board.SelectPreviousColumn()
	case config.ActionNextColumn:
		m.board.SelectNextColumn()
	case config.ActionPrevTask:
		m.board.SelectPreviousTask()
	case config.ActionNextTask:
		m.board.SelectNextTask()
	case config.ActionMoveForward:
		m.move(board.Forward)
	case config.ActionMoveBackward:
		m.move(board.Backward)
	case config.ActionAdd:
		return m.openAddPrompt()
	case config.ActionView:
		return m.openDetail()
	case config.ActionSave:
		m.save()
	case config.ActionHelp:
		m.help.ShowAll = true
		m.state = stateShowingHelp
	case config.ActionQuit:
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) move(dir board.Direction) {
	t, ok := m.board.SelectedTask()
	if !ok {
		return
	}
	if m.board.MoveTask(dir) {
		m.dirty = true
		m.status = fmt.Sprintf("moved %s to %s", t.ShortID(), m.board.SelectedColumn())
	}
}

func (m *Model) save() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(context.Background(), m.board); err != nil {
		m.warning = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.dirty = false
	m.warning = ""
	m.status = "saved " + m.path
}

func (m Model) handleHelpKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	if keyStr == keyCtrlC {
		return m, tea.Quit
	}
	if action, ok := m.keys.Resolve(msg); (ok && action == config.ActionHelp) || keyStr == keyEsc || keyStr == "q" {
		m.help.ShowAll = false
		m.state = stateNormal
	}
	return m, nil
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	t, ok := m.board.SelectedTask()
	if !ok {
		return m, nil
	}
	m.detail = NewDetailModal(t, m.dateFormat, m.now(), m.width, m.height)
	m.state = stateShowingDetail
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyCtrlC:
		return m, tea.Quit
	case keyEsc, "q", "v":
		m.detail = nil
		m.state = stateNormal
		return m, nil
	case "j", "down":
		m.detail.ScrollDown()
	case "k", "up":
		m.detail.ScrollUp()
	}
	return m, nil
}
