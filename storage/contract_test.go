package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Vishalsongara77/Task-App/domain"
)

// runStoreContract exercises the behavior every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) backend) {
	t.Run("create then list", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateTask(ctx, domain.TaskInput{Title: "Buy milk", Details: "2 liters"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" {
			t.Fatalf("expected id to be assigned")
		}
		if created.Done {
			t.Fatalf("expected new task to be open")
		}

		tasks, err := s.ListTasks(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 1 || tasks[0] != created {
			t.Fatalf("unexpected tasks: %#v", tasks)
		}
	})

	t.Run("list empty store", func(t *testing.T) {
		tasks, err := newStore(t).ListTasks(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", tasks)
		}
	})

	t.Run("ids are unique and order is insertion order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		titles := []string{"one", "two", "three", "four"}
		seen := map[string]bool{}
		for _, title := range titles {
			task, err := s.CreateTask(ctx, domain.TaskInput{Title: title, Details: "d"})
			if err != nil {
				t.Fatalf("create %s: %v", title, err)
			}
			if seen[task.ID] {
				t.Fatalf("duplicate id %s", task.ID)
			}
			seen[task.ID] = true
		}
		tasks, err := s.ListTasks(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != len(titles) {
			t.Fatalf("expected %d tasks, got %d", len(titles), len(tasks))
		}
		for i, task := range tasks {
			if task.Title != titles[i] {
				t.Fatalf("position %d: expected %q, got %q", i, titles[i], task.Title)
			}
		}
	})

	t.Run("create rejects missing fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, in := range []domain.TaskInput{{Details: "d"}, {Title: "t"}} {
			if _, err := s.CreateTask(ctx, in); !domain.IsValidation(err) {
				t.Fatalf("expected validation error for %#v, got %v", in, err)
			}
		}
		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != 0 {
			t.Fatalf("expected no tasks to be stored, got %#v", tasks)
		}
	})

	t.Run("update replaces fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, err := s.CreateTask(ctx, domain.TaskInput{Title: "old", Details: "old details"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		updated, err := s.UpdateTask(ctx, created.ID, domain.TaskInput{Title: "new", Details: "new details", Done: created.Done})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		want := domain.Task{ID: created.ID, Title: "new", Details: "new details", Done: false}
		if updated != want {
			t.Fatalf("unexpected update result: %#v", updated)
		}
		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != 1 || tasks[0] != want {
			t.Fatalf("unexpected tasks after update: %#v", tasks)
		}
	})

	t.Run("toggle flips only done", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, _ := s.CreateTask(ctx, domain.TaskInput{Title: "t", Details: "d"})

		in := created.Input()
		in.Done = !in.Done
		if _, err := s.UpdateTask(ctx, created.ID, in); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		tasks, _ := s.ListTasks(ctx)
		want := domain.Task{ID: created.ID, Title: "t", Details: "d", Done: true}
		if len(tasks) != 1 || tasks[0] != want {
			t.Fatalf("unexpected tasks after toggle: %#v", tasks)
		}

		// unchanged update must still succeed
		if _, err := s.UpdateTask(ctx, created.ID, want.Input()); err != nil {
			t.Fatalf("unchanged update: %v", err)
		}
	})

	t.Run("update rejects missing fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, _ := s.CreateTask(ctx, domain.TaskInput{Title: "t", Details: "d"})
		if _, err := s.UpdateTask(ctx, created.ID, domain.TaskInput{Title: "t"}); !domain.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		tasks, _ := s.ListTasks(ctx)
		if tasks[0] != created {
			t.Fatalf("task changed after rejected update: %#v", tasks[0])
		}
	})

	t.Run("delete removes task", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		keep, _ := s.CreateTask(ctx, domain.TaskInput{Title: "keep", Details: "d"})
		gone, _ := s.CreateTask(ctx, domain.TaskInput{Title: "gone", Details: "d"})

		if err := s.DeleteTask(ctx, gone.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		tasks, _ := s.ListTasks(ctx)
		if len(tasks) != 1 || tasks[0] != keep {
			t.Fatalf("unexpected tasks after delete: %#v", tasks)
		}

		var nf *domain.NotFoundError
		_, err := s.UpdateTask(ctx, gone.ID, domain.TaskInput{Title: "x", Details: "y"})
		if !errors.As(err, &nf) || nf.ID != gone.ID {
			t.Fatalf("expected not found on update after delete, got %v", err)
		}
		if err := s.DeleteTask(ctx, gone.ID); !domain.IsNotFound(err) {
			t.Fatalf("expected not found on second delete, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if _, err := s.UpdateTask(ctx, "missing", domain.TaskInput{Title: "t", Details: "d"}); !domain.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
		if err := s.DeleteTask(ctx, "missing"); !domain.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
