// Package tui provides the interactive task list.
//
// Every store operation runs as a tea.Cmd off the event loop. When it
// settles, a syncedMsg brings the model back in line with the store's
// current snapshot, so responses that land out of order are rendered
// as the store applied them.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoctl/internal/output"
	"todoctl/internal/service"
	"todoctl/internal/store"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

const progressWidth = 24

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	doneStyle  = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
	cursorMark = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(">")
)

// syncedMsg reports that a store operation settled.
type syncedMsg struct {
	refresh bool
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx   context.Context
	store *store.Store

	// Snapshot of the store, refreshed on every syncedMsg.
	tasks  []service.Task
	stats  store.Stats
	status store.Status

	pending int // operations in flight
	loading int // refreshes in flight, a subset of pending
	cursor  int
	mode    mode
	editID  int64
	input   textinput.Model
}

// New creates a model over st. Store calls use ctx.
func New(ctx context.Context, st *store.Store) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Width = 48

	return &Model{
		ctx:   ctx,
		store: st,
		input: ti,
	}
}

// Run starts the program and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, st *store.Store) error {
	program := tea.NewProgram(New(ctx, st), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Init mounts the store.
func (m *Model) Init() tea.Cmd {
	return m.runRefresh(m.store.Mount)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncedMsg:
		m.pending--
		if msg.refresh {
			m.loading--
		}
		m.sync()
		return m, nil
	case tea.WindowSizeMsg:
		m.input.Width = max(10, msg.Width-10)
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "r":
		return m, m.runRefresh(m.store.Refresh)
	case "a":
		m.mode = modeAdd
		m.input.Reset()
		return m, m.input.Focus()
	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = task.ID
		m.input.SetValue(task.Title)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case " ", "x":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) {
			m.store.ToggleCompletion(ctx, task)
		})
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) {
			m.store.Delete(ctx, task.ID)
		})
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.leaveInput()
		return m, nil
	case "enter":
		value, editing, id := m.input.Value(), m.mode == modeEdit, m.editID
		m.leaveInput()
		// Blank titles are dropped by the store without a request.
		if editing {
			return m, m.run(func(ctx context.Context) {
				m.store.Update(ctx, id, service.TitleUpdate(value))
			})
		}
		return m, m.run(func(ctx context.Context) {
			m.store.Create(ctx, value)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.editID = 0
	m.input.Blur()
	m.input.Reset()
}

// run wraps a store operation in a command that reports when it settles.
// The closure must not touch model fields: it runs off the event loop.
func (m *Model) run(op func(ctx context.Context)) tea.Cmd {
	return m.start(op, false)
}

// runRefresh is run for operations that reload the collection. The screen
// shows loading from the moment the command is issued.
func (m *Model) runRefresh(op func(ctx context.Context)) tea.Cmd {
	m.loading++
	return m.start(op, true)
}

func (m *Model) start(op func(ctx context.Context), refresh bool) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		op(ctx)
		return syncedMsg{refresh: refresh}
	}
}

func (m *Model) sync() {
	m.tasks = m.store.Tasks()
	m.stats = m.store.Stats()
	m.status = m.store.Status()
	if m.cursor >= len(m.tasks) {
		m.cursor = max(0, len(m.tasks)-1)
	}
}

func (m *Model) isLoading() bool {
	return m.loading > 0 || m.status.State == store.StateLoading
}

func (m *Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	fmt.Fprintf(&b, "  %s %s  %d of %d done\n\n",
		output.ProgressBar(m.stats.Percent, progressWidth),
		output.Percent(m.stats.Percent),
		m.stats.Completed, m.stats.Total)

	if len(m.tasks) == 0 && !m.isLoading() {
		b.WriteString(helpStyle.Render("No tasks yet. Press a to add one."))
		b.WriteString("\n")
	}
	for i, task := range m.tasks {
		mark := " "
		if i == m.cursor && m.mode == modeList {
			mark = cursorMark
		}
		title := task.Title
		box := "[ ]"
		if task.Completed {
			box = "[x]"
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, box, title)
	}

	switch m.mode {
	case modeAdd:
		b.WriteString("\nNew task: " + m.input.View() + "\n")
	case modeEdit:
		b.WriteString("\nEdit title: " + m.input.View() + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.status.State == store.StateErrored:
		b.WriteString(errStyle.Render("Error: "+m.status.Message) + "\n")
	case m.isLoading():
		b.WriteString("Loading...\n")
	case m.pending > 0:
		b.WriteString("Saving...\n")
	}

	if m.mode == modeList {
		b.WriteString(helpStyle.Render("a add • e edit • space toggle • d delete • r refresh • q quit"))
	} else {
		b.WriteString(helpStyle.Render("enter save • esc cancel"))
	}
	b.WriteString("\n")
	return b.String()
}
