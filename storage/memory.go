package storage

import (
	"context"
	"sync"

	"github.com/Vishalsongara77/Task-App/domain"
)

var _ backend = (*Memory)(nil)

// Memory keeps tasks in process memory. Iteration follows insertion order.
type Memory struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	order []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tasks: make(map[string]domain.Task)}
}

func (s *Memory) CreateTask(_ context.Context, in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}
	task := domain.NewTask(in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return task, nil
}

func (s *Memory) ListTasks(_ context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

func (s *Memory) UpdateTask(_ context.Context, id string, in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.Task{}, &domain.NotFoundError{ID: id}
	}
	task := domain.Task{ID: id, Title: in.Title, Details: in.Details, Done: in.Done}
	s.tasks[id] = task
	return task, nil
}

func (s *Memory) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return &domain.NotFoundError{ID: id}
	}
	delete(s.tasks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
