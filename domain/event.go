package domain

// EventType names a task change notification.
type EventType string

const (
	TaskCreated EventType = "task-created"
	TaskUpdated EventType = "task-updated"
	TaskDeleted EventType = "task-deleted"
)

// TaskEvent is published after a task mutation has been persisted.
type TaskEvent struct {
	Type   EventType `json:"type"`
	TaskID string    `json:"taskId"`
	// Task is the state after the change; nil for deletions.
	Task *Task `json:"task,omitempty"`
	Time int64 `json:"time"`
}
