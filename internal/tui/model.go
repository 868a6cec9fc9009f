// Package tui implements the interactive task board.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskr/internal/core/eventbus"
	"github.com/colonyops/taskr/internal/core/logging"
	"github.com/colonyops/taskr/internal/core/task"
	"github.com/colonyops/taskr/internal/core/validate"
	"github.com/colonyops/taskr/internal/taskr"
)

const statusTimeout = 4 * time.Second

type mode int

const (
	modeList mode = iota
	modeAddText
	modeAddDue
)

// Deps holds the services the board needs.
type Deps struct {
	Board *taskr.Board
	Bus   *eventbus.EventBus
	// Changes delivers keys changed on disk by other processes. Nil
	// disables live reload.
	Changes <-chan string
}

// Opts tunes presentation.
type Opts struct {
	ShowHelp bool
}

// Model is the bubbletea model for the task board.
type Model struct {
	ctx   context.Context
	board *taskr.Board
	log   zerolog.Logger

	keys      KeyMap
	inputKeys inputKeys
	help      help.Model
	showHelp  bool

	view   taskr.BoardView
	cursor int

	mode      mode
	input     textinput.Model
	draftText string

	notes     *NotificationBuffer
	status    eventbus.Notification
	statusSeq int

	changes <-chan string

	width  int
	height int
}

type (
	// diskChangeMsg reports a storage key rewritten by another process.
	diskChangeMsg struct{ key string }
	// clearStatusMsg hides the status line if nothing newer replaced it.
	clearStatusMsg struct{ seq int }
)

// New builds the model and subscribes its status line to bus.
func New(ctx context.Context, deps Deps, opts Opts) Model {
	notes := NewNotificationBuffer()
	eventbus.NewNotificationRouter(deps.Bus, notes.Push).Register()

	in := textinput.New()
	in.CharLimit = 256

	h := help.New()

	m := Model{
		ctx:       ctx,
		board:     deps.Board,
		log:       logging.Component("tui"),
		keys:      DefaultKeyMap(),
		inputKeys: defaultInputKeys(),
		help:      h,
		showHelp:  opts.ShowHelp,
		input:     in,
		notes:     notes,
		changes:   deps.Changes,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange blocks on the next changed key. It returns nil once the
// channel closes so the watch loop stops.
func waitForChange(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		k, ok := <-ch
		if !ok {
			return nil
		}
		return diskChangeMsg{key: k}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case diskChangeMsg:
		if msg.key == taskr.TasksKey && m.board.Store().Reload(m.ctx) {
			m.refresh()
		}
		return m, tea.Batch(waitForChange(m.changes), m.takeNotifications())

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = eventbus.Notification{}
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			if _, _, err := m.board.Toggle(logging.WithTaskID(m.ctx, t.ID), t.ID); err != nil {
				return m, m.fail("toggle", err)
			}
		}

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			if _, err := m.board.Delete(logging.WithTaskID(m.ctx, t.ID), t.ID); err != nil {
				return m, m.fail("delete", err)
			}
		}

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAddText
		m.input.Reset()
		m.input.Placeholder = "What needs doing?"
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Cycle):
		m.board.CycleFilter()

	case key.Matches(msg, m.keys.All):
		_ = m.board.SetFilter(string(task.FilterAll))

	case key.Matches(msg, m.keys.Active):
		_ = m.board.SetFilter(string(task.FilterActive))

	case key.Matches(msg, m.keys.Completed):
		_ = m.board.SetFilter(string(task.FilterCompleted))

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	default:
		return m, nil
	}

	m.refresh()
	return m, m.takeNotifications()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Cancel):
		m.endInput()
		return m, nil

	case key.Matches(msg, m.inputKeys.Submit):
		if m.mode == modeAddText {
			if validate.TaskText(m.input.Value()) != nil {
				m.endInput()
				return m, nil
			}
			m.draftText = m.input.Value()
			m.mode = modeAddDue
			m.input.Reset()
			m.input.Placeholder = "YYYY-MM-DD (optional)"
			return m, nil
		}

		due, err := validate.ParseDueDate(m.input.Value())
		if err != nil {
			return m, m.setStatus(eventbus.Notification{
				Level:   eventbus.LevelWarning,
				Message: "due date must be YYYY-MM-DD",
			})
		}

		added, ok, err := m.board.Add(m.ctx, m.draftText, due)
		m.endInput()
		if err != nil {
			return m, m.fail("add", err)
		}
		m.refresh()
		if ok {
			m.focus(added.ID)
		}
		return m, m.takeNotifications()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.mode = modeList
	m.draftText = ""
	m.input.Reset()
	m.input.Blur()
}

// refresh rederives the frame and keeps the cursor on a visible row.
func (m *Model) refresh() {
	m.view = m.board.View()
	if m.cursor >= len(m.view.Tasks) {
		m.cursor = len(m.view.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) focus(id string) {
	for i, t := range m.view.Tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (taskr.TaskView, bool) {
	if len(m.view.Tasks) == 0 {
		return taskr.TaskView{}, false
	}
	return m.view.Tasks[m.cursor], true
}

// takeNotifications shows the newest buffered notification.
func (m *Model) takeNotifications() tea.Cmd {
	notes := m.notes.Drain()
	if len(notes) == 0 {
		return nil
	}
	return m.setStatus(notes[len(notes)-1])
}

func (m *Model) setStatus(n eventbus.Notification) tea.Cmd {
	m.statusSeq++
	m.status = n
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) fail(op string, err error) tea.Cmd {
	m.log.Error().Err(err).Str("op", op).Msg("store operation failed")
	m.refresh()
	m.notes.Drain()
	return m.setStatus(eventbus.Notification{
		Level:   eventbus.LevelWarning,
		Message: op + " failed: " + err.Error(),
	})
}

// Board returns the frame currently on screen.
func (m Model) Board() taskr.BoardView {
	return m.view
}

// Cursor returns the selected row index.
func (m Model) Cursor() int {
	return m.cursor
}

// Status returns the notification on the status line.
func (m Model) Status() eventbus.Notification {
	return m.status
}
