package api

import (
	"github.com/Vishalsongara77/Task-App/domain"
)

const taskBodyMaxSize = 64 * 1024 // 64 KiB

// HeaderIdempotencyKey lets clients retry a create without duplicating the task.
const HeaderIdempotencyKey = "Idempotency-Key"

// Error types reported in errorResponse.Type.
const (
	errTypeValidation = "validation"
	errTypeNotFound   = "not_found"
	errTypeConflict   = "conflict"
	errTypeInternal   = "internal"
)

// POST /api/tasks and PUT /api/tasks/:id request body. Pointers tell absent
// fields apart from zero values.
type taskRequest struct {
	Title   *string `json:"title"`
	Details *string `json:"details"`
	Done    *bool   `json:"done"`
}

func (r taskRequest) input(requireDone bool) (domain.TaskInput, error) {
	if r.Title == nil {
		return domain.TaskInput{}, &domain.ValidationError{Field: "title"}
	}
	if r.Details == nil {
		return domain.TaskInput{}, &domain.ValidationError{Field: "details"}
	}
	if requireDone && r.Done == nil {
		return domain.TaskInput{}, &domain.ValidationError{Field: "done"}
	}
	in := domain.TaskInput{Title: *r.Title, Details: *r.Details}
	if r.Done != nil {
		in.Done = *r.Done
	}
	return in, nil
}

// GET /api/tasks response body
type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// DELETE /api/tasks/:id response body
type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	ID    string `json:"id,omitempty"`
}
