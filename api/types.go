package api

import (
	"context"

	"github.com/Vishalsongara77/Task-App/domain"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Publisher receives change events after a mutation has been stored.
type Publisher interface {
	Publish(ctx context.Context, ev domain.TaskEvent) error
}

// Deduper prevents processing of duplicate create requests.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, key string) (bool, error)
	// Remove deletes a previously added key, used when the create fails.
	Remove(ctx context.Context, key string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}
