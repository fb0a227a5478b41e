package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Task represents a single item of the task list.
type Task struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Details string `json:"details"`
	Done    bool   `json:"done"`
}

// TaskInput carries the mutable fields of a task. Updates replace all of them.
type TaskInput struct {
	Title   string `json:"title"`
	Details string `json:"details"`
	Done    bool   `json:"done"`
}

// Validate reports the first required field that is empty.
func (in TaskInput) Validate() error {
	if in.Title == "" {
		return &ValidationError{Field: "title"}
	}
	if in.Details == "" {
		return &ValidationError{Field: "details"}
	}
	return nil
}

// Blank reports whether either text field is empty once surrounding whitespace is dropped.
func (in TaskInput) Blank() bool {
	return strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Details) == ""
}

// Input returns the mutable fields of t.
func (t Task) Input() TaskInput {
	return TaskInput{Title: t.Title, Details: t.Details, Done: t.Done}
}

// NewTask builds a task with a freshly assigned id.
func NewTask(in TaskInput) Task {
	return Task{ID: NewID(), Title: in.Title, Details: in.Details, Done: in.Done}
}

// NewID returns a time ordered identifier so that lexical order follows creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
