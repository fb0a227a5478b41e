package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Vishalsongara77/Task-App/domain"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

const (
	fieldTitle = iota
	fieldDetails
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))
	detailsStyle  = lipgloss.NewStyle().Faint(true)
	formStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	editingMarker = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("(editing)")
)

// actionDoneMsg reports the end of a manager call started from the model.
type actionDoneMsg struct {
	op  string
	err error
}

// Model renders a Manager as a bubbletea program.
type Model struct {
	ctx    context.Context
	mgr    *Manager
	cursor int
	mode   mode
	inputs [2]textinput.Model
	focus  int
	busy   bool
	status string
	err    error
	width  int
}

// NewModel returns a model that loads the list on start.
func NewModel(ctx context.Context, mgr *Manager) Model {
	m := Model{ctx: ctx, mgr: mgr, busy: true, status: "loading..."}
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 48
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Prompt = "Title:   "
	m.inputs[fieldTitle].Placeholder = "What needs doing?"
	m.inputs[fieldDetails].Prompt = "Details: "
	m.inputs[fieldDetails].Placeholder = "Details"
	return m
}

// Run starts the terminal UI against svc and blocks until the user quits or
// ctx ends.
func Run(ctx context.Context, svc Service, opts ...Option) error {
	model := NewModel(ctx, NewManager(svc, opts...))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.run("refresh", m.mgr.Refresh)
}

func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-16, 10)
		}
		return m, nil
	case actionDoneMsg:
		return m.finish(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modeList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) finish(msg actionDoneMsg) Model {
	m.busy = false
	m.err = msg.err
	if msg.err != nil {
		m.status = fmt.Sprintf("%s failed", msg.op)
	} else {
		m.status = ""
		switch {
		case msg.op == "create" && m.mode == modeAdd:
			m.closeForm()
		case msg.op == "update" && m.mode == modeEdit:
			if state, _ := m.mgr.State(); state == Idle {
				m.closeForm()
			}
		}
	}
	if m.mode == modeEdit {
		// The task under edit disappeared from the list.
		if state, _ := m.mgr.State(); state == Idle {
			m.closeForm()
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.mgr.Tasks()))
	return m
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.mgr.Tasks()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(tasks))
		return m, nil
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(tasks))
		return m, nil
	}
	if m.busy {
		return m, nil
	}

	var selected string
	if m.cursor < len(tasks) {
		selected = tasks[m.cursor].ID
	}
	switch msg.String() {
	case "r":
		m.busy = true
		return m, m.run("refresh", m.mgr.Refresh)
	case "n":
		d := m.mgr.Draft()
		return m.openForm(modeAdd, d)
	case " ", "space", "x":
		if selected == "" {
			return m, nil
		}
		m.busy = true
		return m, m.run("toggle", func(ctx context.Context) error { return m.mgr.Toggle(ctx, selected) })
	case "d":
		if selected == "" {
			return m, nil
		}
		m.busy = true
		return m, m.run("delete", func(ctx context.Context) error { return m.mgr.Delete(ctx, selected) })
	case "e", "enter":
		if selected == "" {
			return m, nil
		}
		if err := m.mgr.BeginEdit(selected); err != nil {
			m.status, m.err = "edit failed", err
			return m, nil
		}
		return m.openForm(modeEdit, m.mgr.EditDraft())
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			m.mgr.CancelEdit()
		}
		m.closeForm()
		return m, nil
	case "tab", "shift+tab":
		cmd := m.setFocus(1 - m.focus)
		return m, cmd
	case "enter":
		if m.busy {
			return m, nil
		}
		d := m.formDraft()
		if d.blank() {
			return m, nil
		}
		m.busy = true
		if m.mode == modeEdit {
			return m, m.run("update", m.mgr.SaveEdit)
		}
		return m, m.run("create", m.mgr.AddTask)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.mode == modeEdit {
		m.mgr.SetEditDraft(m.formDraft())
	} else {
		m.mgr.SetDraft(m.formDraft())
	}
	return m, cmd
}

func (m Model) openForm(md mode, d Draft) (Model, tea.Cmd) {
	m.mode = md
	m.inputs[fieldTitle].SetValue(d.Title)
	m.inputs[fieldDetails].SetValue(d.Details)
	cmd := m.setFocus(fieldTitle)
	return m, cmd
}

func (m *Model) closeForm() {
	m.mode = modeList
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
	m.focus = fieldTitle
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	for i := range m.inputs {
		if i != field {
			m.inputs[i].Blur()
		}
	}
	return m.inputs[field].Focus()
}

func (m Model) formDraft() Draft {
	return Draft{Title: m.inputs[fieldTitle].Value(), Details: m.inputs[fieldDetails].Value()}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\n")

	tasks := m.mgr.Tasks()
	_, editID := m.mgr.State()
	if len(tasks) == 0 {
		b.WriteString(detailsStyle.Render("  no tasks yet"))
		b.WriteString("\n")
	}
	for i, t := range tasks {
		b.WriteString(renderTask(t, i == m.cursor, t.ID == editID))
		b.WriteString("\n")
	}

	if m.mode != modeList {
		heading := "New task"
		if m.mode == modeEdit {
			heading = "Edit task"
		}
		form := heading + "\n" + m.inputs[fieldTitle].View() + "\n" + m.inputs[fieldDetails].View()
		b.WriteString("\n")
		b.WriteString(formStyle.Render(form))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %v", m.status, m.err)))
	case m.busy:
		b.WriteString(statusStyle.Render("working..."))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	if m.mode == modeList {
		return "j/k move • space toggle • e edit • d delete • n new • r refresh • q quit"
	}
	return "tab switch field • enter save • esc cancel"
}

func renderTask(t domain.Task, selected, editing bool) string {
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("> ")
	}
	box := "[ ]"
	title := t.Title
	if t.Done {
		box = "[x]"
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s%s %s %s", cursor, box, title, detailsStyle.Render(t.Details))
	if editing {
		line += " " + editingMarker
	}
	return line
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
