package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"

	"github.com/Vishalsongara77/Task-App/domain"
)

// tasksPartition holds every task; the list is flat.
const tasksPartition = "tasks"

var retryStatusCodes = []int{408, 429, 500, 502, 503, 504}

// Tables persists tasks in Azure Table Storage.
type Tables struct {
	table *aztables.Client
}

// NewTables creates a Tables store for the named table from the given connection string.
func NewTables(connStr, tableName string) (*Tables, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   retryStatusCodes,
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	return &Tables{table: svc.NewClient(tableName)}, nil
}

type taskEntity struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
	Title        string `json:"Title"`
	Details      string `json:"Details"`
	Done         bool   `json:"Done"`
}

func newTaskEntity(t domain.Task) taskEntity {
	return taskEntity{
		PartitionKey: tasksPartition,
		RowKey:       t.ID,
		Title:        t.Title,
		Details:      t.Details,
		Done:         t.Done,
	}
}

func decodeTaskEntity(data []byte) (domain.Task, error) {
	var ent taskEntity
	if err := sonic.Unmarshal(data, &ent); err != nil {
		return domain.Task{}, err
	}
	return domain.Task{ID: ent.RowKey, Title: ent.Title, Details: ent.Details, Done: ent.Done}, nil
}

// CreateTask inserts a new task entity.
func (s *Tables) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}
	task := domain.NewTask(in)
	payload, err := sonic.Marshal(newTaskEntity(task))
	if err != nil {
		return domain.Task{}, err
	}
	if _, err := s.table.AddEntity(ctx, payload, nil); err != nil {
		return domain.Task{}, fmt.Errorf("add task entity: %w", err)
	}
	return task, nil
}

// ListTasks retrieves every task. Row keys are time ordered, so the table's
// natural order is creation order.
func (s *Tables) ListTasks(ctx context.Context) ([]domain.Task, error) {
	filter := "PartitionKey eq '" + tasksPartition + "'"
	pager := s.table.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	tasks := []domain.Task{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list task entities: %w", err)
		}
		for _, e := range resp.Entities {
			task, err := decodeTaskEntity(e)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// UpdateTask replaces all mutable fields of an existing task.
func (s *Tables) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}
	task := domain.Task{ID: id, Title: in.Title, Details: in.Details, Done: in.Done}
	payload, err := sonic.Marshal(newTaskEntity(task))
	if err != nil {
		return domain.Task{}, err
	}
	et := azcore.ETagAny
	_, err = s.table.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &et, UpdateMode: aztables.UpdateModeReplace})
	if err != nil {
		if isNotFound(err) {
			return domain.Task{}, &domain.NotFoundError{ID: id}
		}
		return domain.Task{}, fmt.Errorf("update task entity: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task entity.
func (s *Tables) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.table.DeleteEntity(ctx, tasksPartition, id, nil); err != nil {
		if isNotFound(err) {
			return &domain.NotFoundError{ID: id}
		}
		return fmt.Errorf("delete task entity: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
