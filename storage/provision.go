package storage

import (
	"context"
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	log "github.com/sirupsen/logrus"
)

// Provision creates the tasks table and, when named, the events queue.
// Existing resources are left untouched.
func Provision(ctx context.Context, connStr, tableName, queueName string) error {
	if tableName != "" {
		if err := createTable(ctx, connStr, tableName); err != nil {
			return err
		}
		log.WithField("table", tableName).Info("tasks table ready")
	}
	if queueName != "" {
		if err := createQueue(ctx, connStr, queueName); err != nil {
			return err
		}
		log.WithField("queue", queueName).Info("events queue ready")
	}
	return nil
}

func createTable(ctx context.Context, connStr, name string) error {
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, nil)
	if err != nil {
		return err
	}
	_, err = svc.NewClient(name).CreateTable(ctx, nil)
	if err != nil && !isAlreadyExists(err, string(aztables.TableAlreadyExists)) {
		return err
	}
	return nil
}

func createQueue(ctx context.Context, connStr, name string) error {
	q, err := azqueue.NewQueueClientFromConnectionString(connStr, name, nil)
	if err != nil {
		return err
	}
	_, err = q.Create(ctx, nil)
	if err != nil && !isAlreadyExists(err, "QueueAlreadyExists") {
		return err
	}
	return nil
}

func isAlreadyExists(err error, code string) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.ErrorCode == code
}
