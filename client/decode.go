package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/Vishalsongara77/Task-App/domain"
)

// listKeys are the wrapper keys a list response may use, in precedence order.
var listKeys = []string{"tasks", "data"}

// decodeTaskList accepts a bare array or an object carrying the array under
// one of listKeys. Any other object yields an empty list.
func decodeTaskList(body []byte) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := sonic.Unmarshal(body, &tasks); err == nil {
		if tasks == nil {
			tasks = []domain.Task{}
		}
		return tasks, nil
	}

	var wrapped map[string]json.RawMessage
	if err := sonic.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	for _, key := range listKeys {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		var inner []domain.Task
		if err := sonic.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode task list %q: %w", key, err)
		}
		if inner == nil {
			inner = []domain.Task{}
		}
		return inner, nil
	}
	return []domain.Task{}, nil
}

func decodeTask(body []byte) (domain.Task, error) {
	var t domain.Task
	if err := sonic.Unmarshal(body, &t); err != nil {
		return domain.Task{}, fmt.Errorf("decode task: %w", err)
	}
	if t.ID == "" {
		return domain.Task{}, errors.New("decode task: missing id")
	}
	return t, nil
}
