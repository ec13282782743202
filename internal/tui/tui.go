// Package tui provides a terminal user interface for the task list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todopad/backend"
	"todopad/internal/tasklist"
	"todopad/internal/utils"
)

// Mode indicates the current input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeEdit
	ModeConfirmDelete
)

// Model represents the TUI state. All task state lives in the controller;
// the model only tracks selection and input widgets.
type Model struct {
	ctrl *tasklist.Controller
	ctx  context.Context

	// Selection
	cursor        int
	pendingDelete string

	// Mode and input
	mode   Mode
	entry  textinput.Model
	editor textinput.Model
	keys   keyMap
	help   help.Model

	// UI dimensions
	width  int
	height int

	// Styles
	titleStyle     lipgloss.Style
	selectedStyle  lipgloss.Style
	completedStyle lipgloss.Style
	helpStyle      lipgloss.Style
	errorStyle     lipgloss.Style
	offlineStyle   lipgloss.Style
	dialogStyle    lipgloss.Style
	statusBarStyle lipgloss.Style
	activeTabStyle lipgloss.Style
}

// Message types
type opDoneMsg struct {
	op  string
	err error
}

type addedMsg struct {
	raw  string
	task *backend.Task
	err  error
}

// Option configures a Model
type Option func(*Model)

// WithContext sets the context passed to store calls
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// New creates a new TUI model over ctrl
func New(ctrl *tasklist.Controller, opts ...Option) *Model {
	entry := textinput.New()
	entry.Placeholder = "What needs to be done?"
	entry.CharLimit = utils.MaxTitleLength
	entry.Prompt = "+ "

	editor := textinput.New()
	editor.CharLimit = utils.MaxTitleLength
	editor.Prompt = ""

	m := &Model{
		ctrl:   ctrl,
		ctx:    context.Background(),
		mode:   ModeNormal,
		entry:  entry,
		editor: editor,
		keys:   defaultKeyMap(),
		help:   help.New(),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		completedStyle: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		offlineStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		dialogStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		statusBarStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		activeTabStyle: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mode returns the current input mode
func (m *Model) Mode() Mode {
	return m.mode
}

// Init loads the task list
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "load", err: m.ctrl.Load(m.ctx)}
	}
}

func (m *Model) add(raw string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.ctrl.Add(m.ctx, raw)
		return addedMsg{raw: raw, task: task, err: err}
	}
}

func (m *Model) save(id, title string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "save", err: m.ctrl.Rename(m.ctx, id, title)}
	}
}

func (m *Model) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "toggle", err: m.ctrl.ToggleCompleted(m.ctx, id)}
	}
}

func (m *Model) remove(id string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "delete", err: m.ctrl.Delete(m.ctx, id)}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			utils.GetLogger().Debug("tui command failed", "op", msg.op)
		}
		m.clampCursor()
		return m, nil

	case addedMsg:
		// Keep anything typed while the insert was in flight.
		if msg.err == nil && msg.task != nil && m.entry.Value() == msg.raw {
			m.entry.Reset()
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeAdd:
			return m.handleAddMode(msg)
		case ModeEdit:
			return m.handleEditMode(msg)
		case ModeConfirmDelete:
			return m.handleConfirmDeleteMode(msg)
		default:
			return m.handleNormalMode(msg)
		}
	}

	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.ctrl.Visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		m.mode = ModeAdd
		return m, m.entry.Focus()

	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.ctrl.BeginEdit(task.ID, task.Title)
		m.editor.SetValue(task.Title)
		m.editor.CursorEnd()
		m.mode = ModeEdit
		return m, m.editor.Focus()

	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			return m, m.toggle(task.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			m.pendingDelete = task.ID
			m.mode = ModeConfirmDelete
		}

	case key.Matches(msg, m.keys.All):
		m.setFilter(tasklist.All)

	case key.Matches(msg, m.keys.Active):
		m.setFilter(tasklist.Active)

	case key.Matches(msg, m.keys.Completed):
		m.setFilter(tasklist.Completed)

	case key.Matches(msg, m.keys.NextFilter):
		m.setFilter(m.ctrl.FilterMode().Next())

	case key.Matches(msg, m.keys.Reload):
		return m, m.load()

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.ClearError()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		return m, m.add(m.entry.Value())

	case tea.KeyEsc:
		m.entry.Blur()
		m.mode = ModeNormal
		return m, nil
	}

	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

func (m *Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab, tea.KeyUp, tea.KeyDown:
		// Leaving the field commits the draft.
		return m, m.finishEdit()

	case tea.KeyEsc:
		m.ctrl.CancelEdit()
		m.editor.Blur()
		m.mode = ModeNormal
		return m, nil
	}

	m.editor, cmd = m.editor.Update(msg)
	m.ctrl.SetDraft(m.editor.Value())
	return m, cmd
}

func (m *Model) finishEdit() tea.Cmd {
	m.editor.Blur()
	m.mode = ModeNormal
	cur, ok := m.ctrl.Editing()
	if !ok {
		return nil
	}
	// Take the draft now; a later edit replaces the cursor.
	title, ok := m.ctrl.CommitEdit(cur.ID)
	if !ok {
		return nil
	}
	return m.save(cur.ID, title)
}

func (m *Model) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	switch msg.String() {
	case "y", "Y":
		m.pendingDelete = ""
		m.mode = ModeNormal
		return m, m.remove(id)

	case "n", "N", "esc", "q":
		m.pendingDelete = ""
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *Model) setFilter(mode tasklist.FilterMode) {
	m.ctrl.SetFilter(mode)
	m.clampCursor()
}

func (m *Model) selected() (backend.Task, bool) {
	visible := m.ctrl.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return backend.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		m.width = 80
		m.height = 24
	}

	if m.mode == ModeConfirmDelete {
		return m.renderConfirmDeleteDialog()
	}

	var b strings.Builder
	b.WriteString(m.titleStyle.Render("todos"))
	b.WriteString("\n")

	if !m.ctrl.Connected() {
		status := "not connected"
		if d, ok := m.ctrl.Store().(backend.Disconnected); ok && d.Reason != "" {
			status += " (" + d.Reason + ")"
		}
		b.WriteString(m.offlineStyle.Render("● " + status))
		b.WriteString("\n")
	}

	if err := m.ctrl.Err(); err != nil {
		msg, _, _ := strings.Cut(err.Error(), "\n")
		b.WriteString(m.errorStyle.Render("✗ " + msg))
		b.WriteString(m.helpStyle.Render("  esc: dismiss"))
		b.WriteString("\n")
		if hint := utils.Suggestion(err); hint != "" {
			b.WriteString(m.helpStyle.Render("  " + hint))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.entry.View())
	b.WriteString("\n\n")

	m.renderTasks(&b)

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *Model) renderTasks(b *strings.Builder) {
	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		b.WriteString(m.helpStyle.Render("  No tasks"))
		b.WriteString("\n")
		return
	}

	editing, isEditing := m.ctrl.Editing()
	for i, task := range visible {
		prefix := "  "
		if i == m.cursor && m.mode != ModeAdd {
			prefix = "> "
		}

		checkbox := "[ ]"
		if task.Completed {
			checkbox = "[x]"
		}

		var title string
		switch {
		case isEditing && editing.ID == task.ID:
			title = m.editor.View()
		case task.Completed:
			title = m.completedStyle.Render(task.Title)
		case i == m.cursor && m.mode != ModeAdd:
			title = m.selectedStyle.Render(task.Title)
		default:
			title = task.Title
		}

		b.WriteString(prefix + checkbox + " " + title + "\n")
	}
}

func (m *Model) renderStatusBar() string {
	left := m.ctrl.Stats().ItemsLeft()

	current := m.ctrl.FilterMode()
	tabs := make([]string, 0, len(tasklist.FilterModes))
	for _, mode := range tasklist.FilterModes {
		label := strings.ToUpper(mode.String()[:1]) + mode.String()[1:]
		if mode == current {
			label = m.activeTabStyle.Render(label)
		}
		tabs = append(tabs, label)
	}
	right := strings.Join(tabs, " | ")

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return m.statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) renderConfirmDeleteDialog() string {
	title := "Delete selected task?"
	if task, ok := m.ctrl.Task(m.pendingDelete); ok {
		title = fmt.Sprintf("Delete %q?", task.Title)
	}
	dialog := m.dialogStyle.Render(
		title + "\n\n" +
			m.helpStyle.Render("y: yes  n: no"),
	)
	return m.centerDialog(dialog)
}

func (m *Model) centerDialog(dialog string) string {
	lines := strings.Split(dialog, "\n")
	dialogHeight := len(lines)
	dialogWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > dialogWidth {
			dialogWidth = w
		}
	}

	topPad := (m.height - dialogHeight) / 2
	leftPad := (m.width - dialogWidth) / 2

	if topPad < 0 {
		topPad = 0
	}
	if leftPad < 0 {
		leftPad = 0
	}

	var b strings.Builder
	for i := 0; i < topPad; i++ {
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", leftPad))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
