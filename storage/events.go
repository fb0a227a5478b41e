package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"

	"github.com/Vishalsongara77/Task-App/domain"
)

// EventQueue publishes task change events to an Azure storage queue.
type EventQueue struct {
	queue *azqueue.QueueClient
}

// NewEventQueue creates a publisher for the named queue.
func NewEventQueue(connStr, queueName string) (*EventQueue, error) {
	opts := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   retryStatusCodes,
			},
		},
	}
	q, err := azqueue.NewQueueClientFromConnectionString(connStr, queueName, &opts)
	if err != nil {
		return nil, err
	}
	return &EventQueue{queue: q}, nil
}

// Publish enqueues a single event.
func (q *EventQueue) Publish(ctx context.Context, ev domain.TaskEvent) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	if _, err := q.queue.EnqueueMessage(ctx, data, nil); err != nil {
		return fmt.Errorf("enqueue %s event: %w", ev.Type, err)
	}
	return nil
}

func encodeEvent(ev domain.TaskEvent) (string, error) {
	if ev.Time == 0 {
		ev.Time = time.Now().UnixNano()
	}
	return sonic.MarshalString(ev)
}
