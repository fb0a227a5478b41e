// Package ui holds the task list view state and the terminal front end that
// drives it.
package ui

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Vishalsongara77/Task-App/domain"
)

// Service is the subset of the task API the manager calls.
type Service interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// ErrorReporter receives every failed service call.
type ErrorReporter func(op string, err error)

// LogErrors reports failures through logrus.
func LogErrors(op string, err error) {
	log.WithError(err).WithField("op", op).Error("task action failed")
}

// State is the editing state of the manager.
type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Draft is the text of the new-task or edit form.
type Draft struct {
	Title   string
	Details string
}

func (d Draft) blank() bool {
	return domain.TaskInput{Title: d.Title, Details: d.Details}.Blank()
}

// Manager keeps the task list in sync with the service. Every successful
// mutation is followed by a full list fetch; the local list is only ever
// replaced by what the service returns.
type Manager struct {
	svc    Service
	report ErrorReporter

	mu        sync.Mutex
	tasks     []domain.Task
	draft     Draft
	editID    string
	editDraft Draft
	editDone  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithErrorReporter replaces the default logrus reporter.
func WithErrorReporter(r ErrorReporter) Option {
	return func(m *Manager) {
		if r != nil {
			m.report = r
		}
	}
}

// NewManager returns an idle manager with an empty list.
func NewManager(svc Service, opts ...Option) *Manager {
	m := &Manager{svc: svc, report: LogErrors}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) fail(op string, err error) error {
	m.report(op, err)
	return err
}

// Refresh replaces the local list with the service's. An edit whose task is
// gone is dropped.
func (m *Manager) Refresh(ctx context.Context) error {
	tasks, err := m.svc.ListTasks(ctx)
	if err != nil {
		return m.fail("list", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = tasks
	if m.editID != "" && indexOf(tasks, m.editID) < 0 {
		m.clearEditLocked()
	}
	return nil
}

// Tasks returns a copy of the current list.
func (m *Manager) Tasks() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// State reports whether an edit form is open and for which task.
func (m *Manager) State() (State, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editID == "" {
		return Idle, ""
	}
	return Editing, m.editID
}

func (m *Manager) SetDraft(d Draft) {
	m.mu.Lock()
	m.draft = d
	m.mu.Unlock()
}

func (m *Manager) Draft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// AddTask creates a task from the draft. Blank drafts are ignored without a
// call. The draft is cleared only once the create succeeds.
func (m *Manager) AddTask(ctx context.Context) error {
	d := m.Draft()
	if d.blank() {
		return nil
	}
	if _, err := m.svc.CreateTask(ctx, domain.TaskInput{Title: d.Title, Details: d.Details}); err != nil {
		return m.fail("create", err)
	}
	m.mu.Lock()
	if m.draft == d {
		m.draft = Draft{}
	}
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// BeginEdit opens the edit form for id, seeded from the task as currently listed.
func (m *Manager) BeginEdit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.tasks, id)
	if i < 0 {
		return &domain.NotFoundError{ID: id}
	}
	t := m.tasks[i]
	m.editID = t.ID
	m.editDraft = Draft{Title: t.Title, Details: t.Details}
	m.editDone = t.Done
	return nil
}

func (m *Manager) SetEditDraft(d Draft) {
	m.mu.Lock()
	if m.editID != "" {
		m.editDraft = d
	}
	m.mu.Unlock()
}

func (m *Manager) EditDraft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editDraft
}

// SaveEdit sends the edit draft with the done value seen when the form was
// opened. Blank drafts are ignored. The form closes only on success.
func (m *Manager) SaveEdit(ctx context.Context) error {
	m.mu.Lock()
	id, d, done := m.editID, m.editDraft, m.editDone
	m.mu.Unlock()
	if id == "" || d.blank() {
		return nil
	}

	in := domain.TaskInput{Title: d.Title, Details: d.Details, Done: done}
	if _, err := m.svc.UpdateTask(ctx, id, in); err != nil {
		return m.fail("update", err)
	}
	m.mu.Lock()
	if m.editID == id {
		m.clearEditLocked()
	}
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// CancelEdit closes the edit form without a call.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	m.clearEditLocked()
	m.mu.Unlock()
}

// Toggle flips done on the listed task and leaves its text unchanged.
func (m *Manager) Toggle(ctx context.Context, id string) error {
	m.mu.Lock()
	i := indexOf(m.tasks, id)
	var t domain.Task
	if i >= 0 {
		t = m.tasks[i]
	}
	m.mu.Unlock()
	if i < 0 {
		return m.fail("toggle", &domain.NotFoundError{ID: id})
	}

	in := t.Input()
	in.Done = !in.Done
	if _, err := m.svc.UpdateTask(ctx, id, in); err != nil {
		return m.fail("toggle", err)
	}
	return m.Refresh(ctx)
}

// Delete removes the task and refetches.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.svc.DeleteTask(ctx, id); err != nil {
		return m.fail("delete", err)
	}
	return m.Refresh(ctx)
}

func (m *Manager) clearEditLocked() {
	m.editID = ""
	m.editDraft = Draft{}
	m.editDone = false
}

func indexOf(tasks []domain.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
