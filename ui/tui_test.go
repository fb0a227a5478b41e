package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vishalsongara77/Task-App/domain"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(s))
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

// runAction executes an action command and feeds its result back.
func runAction(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected an action command")
	}
	msg, ok := cmd().(actionDoneMsg)
	if !ok {
		t.Fatalf("expected actionDoneMsg")
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func newTestModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	mgr, _ := newTestManager(svc)
	m := NewModel(context.Background(), mgr)
	if !m.busy {
		t.Fatalf("expected model busy until first load")
	}
	return runAction(t, m, m.Init())
}

func TestModelAddToggleEditDelete(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	if m.busy {
		t.Fatalf("expected idle model after load")
	}

	m, _ = press(t, m, "n")
	if m.mode != modeAdd {
		t.Fatalf("expected add mode")
	}
	m = typeText(t, m, "Buy milk")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "2 liters")
	m, cmd := press(t, m, "enter")
	if !m.busy {
		t.Fatalf("expected busy while creating")
	}
	m = runAction(t, m, cmd)
	if m.mode != modeList {
		t.Fatalf("expected list mode after create")
	}
	tasks := m.mgr.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || tasks[0].Details != "2 liters" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Fatalf("expected task rendered")
	}

	m, cmd = press(t, m, "x")
	m = runAction(t, m, cmd)
	if !m.mgr.Tasks()[0].Done {
		t.Fatalf("expected task done after toggle")
	}

	m, _ = press(t, m, "e")
	if m.mode != modeEdit {
		t.Fatalf("expected edit mode")
	}
	if got := m.inputs[fieldTitle].Value(); got != "Buy milk" {
		t.Fatalf("expected seeded title, got %q", got)
	}
	m = typeText(t, m, "!")
	m, cmd = press(t, m, "enter")
	m = runAction(t, m, cmd)
	if m.mode != modeList {
		t.Fatalf("expected list mode after save")
	}
	got := m.mgr.Tasks()[0]
	if got.Title != "Buy milk!" || !got.Done {
		t.Fatalf("unexpected task after edit %+v", got)
	}

	m, cmd = press(t, m, "d")
	m = runAction(t, m, cmd)
	if len(m.mgr.Tasks()) != 0 {
		t.Fatalf("expected empty list after delete")
	}
	if !strings.Contains(m.View(), "no tasks yet") {
		t.Fatalf("expected empty placeholder")
	}
}

func TestModelBlankSubmitIsIgnored(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	svc.resetCalls()

	m, _ = press(t, m, "n")
	m = typeText(t, m, "   ")
	m, cmd := press(t, m, "enter")
	if cmd != nil || m.busy {
		t.Fatalf("expected blank draft ignored")
	}
	if m.mode != modeAdd {
		t.Fatalf("expected form to stay open")
	}
	assertCalls(t, svc)
}

func TestModelIgnoresActionsWhileBusy(t *testing.T) {
	svc := &fakeService{tasks: []domain.Task{{ID: "a", Title: "t", Details: "d"}}}
	m := newTestModel(t, svc)

	m, cmd := press(t, m, "x")
	if cmd == nil {
		t.Fatalf("expected toggle command")
	}
	m, second := press(t, m, "d")
	if second != nil {
		t.Fatalf("expected delete ignored while busy")
	}
	m, _ = press(t, m, "j")
	m = runAction(t, m, cmd)
	if m.busy {
		t.Fatalf("expected idle after action")
	}
}

func TestModelEscCancelsEdit(t *testing.T) {
	svc := &fakeService{tasks: []domain.Task{{ID: "a", Title: "t", Details: "d"}}}
	m := newTestModel(t, svc)
	svc.resetCalls()

	m, _ = press(t, m, "e")
	m = typeText(t, m, "zzz")
	m, _ = press(t, m, "esc")
	if m.mode != modeList {
		t.Fatalf("expected list mode")
	}
	if state, _ := m.mgr.State(); state != Idle {
		t.Fatalf("expected manager idle")
	}
	assertCalls(t, svc)
	if m.mgr.Tasks()[0].Title != "t" {
		t.Fatalf("expected title unchanged")
	}
}

func TestModelShowsErrors(t *testing.T) {
	svc := &fakeService{tasks: []domain.Task{{ID: "a", Title: "t", Details: "d"}}}
	m := newTestModel(t, svc)
	svc.deleteErr = errors.New("service unavailable")

	m, cmd := press(t, m, "d")
	m = runAction(t, m, cmd)
	if !strings.Contains(m.View(), "service unavailable") {
		t.Fatalf("expected error in status bar, got:\n%s", m.View())
	}
	if len(m.mgr.Tasks()) != 1 {
		t.Fatalf("expected stale list kept")
	}
}

func TestModelCursorMovement(t *testing.T) {
	svc := &fakeService{tasks: []domain.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	m := newTestModel(t, svc)

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "down")
	m, _ = press(t, m, "j")
	if m.cursor != 2 {
		t.Fatalf("expected cursor clamped at 2, got %d", m.cursor)
	}
	m, _ = press(t, m, "k")
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}

	m, cmd := press(t, m, "d")
	m = runAction(t, m, cmd)
	if ids := m.mgr.Tasks(); len(ids) != 2 || ids[1].ID != "c" {
		t.Fatalf("expected b deleted, got %+v", ids)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct{ cur, n, want int }{
		{0, 0, 0}, {-1, 3, 0}, {5, 3, 2}, {1, 3, 1},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cur, tt.n); got != tt.want {
			t.Fatalf("clampCursor(%d, %d) = %d, want %d", tt.cur, tt.n, got, tt.want)
		}
	}
}
