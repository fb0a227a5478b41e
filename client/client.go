// Package client talks to the task service over HTTP.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/Vishalsongara77/Task-App/domain"
)

const (
	tasksPath = "/api/tasks"

	headerIdempotencyKey = "Idempotency-Key"
	maxErrorBody         = 64 * 1024
)

// Client wraps http.Client with helpers for the task endpoints.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a new Client.
func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{}}
}

// StatusError is returned for non-2xx responses that carry no typed error.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
	Type  string `json:"type"`
	Field string `json:"field"`
	ID    string `json:"id"`
}

// ListTasks fetches every task in creation order.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	body, err := c.do(ctx, http.MethodGet, tasksPath, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeTaskList(body)
}

// CreateTask creates a task. done may be preset in in.
func (c *Client) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	return c.CreateTaskWithKey(ctx, in, "")
}

// CreateTaskWithKey creates a task and lets the server drop replays of the same key.
func (c *Client) CreateTaskWithKey(ctx context.Context, in domain.TaskInput, key string) (domain.Task, error) {
	var headers http.Header
	if key != "" {
		headers = http.Header{headerIdempotencyKey: []string{key}}
	}
	body, err := c.do(ctx, http.MethodPost, tasksPath, in, headers)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(body)
}

// UpdateTask replaces title, details and done of the task with the given id.
func (c *Client) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error) {
	body, err := c.do(ctx, http.MethodPut, taskPath(id), in, nil)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(body)
}

// DeleteTask removes the task with the given id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
	return err
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, headers http.Header) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := sonic.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, raw, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// statusError restores the typed domain error from an error response.
func statusError(code int, raw []byte, path string) error {
	var eb errorBody
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &eb); err != nil {
			eb.Error = strings.TrimSpace(string(raw))
		}
	}
	switch code {
	case http.StatusBadRequest:
		return &domain.ValidationError{Field: eb.Field}
	case http.StatusNotFound:
		id := eb.ID
		if id == "" {
			id = path[strings.LastIndex(path, "/")+1:]
			if unescaped, err := url.PathUnescape(id); err == nil {
				id = unescaped
			}
		}
		return &domain.NotFoundError{ID: id}
	default:
		return &StatusError{Code: code, Message: eb.Error}
	}
}
