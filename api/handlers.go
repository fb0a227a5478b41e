package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Vishalsongara77/Task-App/domain"
)

const (
	tasksRoute = "/api/tasks"
	taskRoute  = "/api/tasks/:id"

	publishTimeout = 5 * time.Second
)

// Register wires up all API routes on the provided Echo instance.
// pub and dedupe are optional.
func Register(e *echo.Echo, store Storage, pub Publisher, dedupe Deduper, logger *log.Logger) {
	e.JSONSerializer = JSONSerializer{}

	e.POST(tasksRoute, createTask(store, pub, dedupe, logger))
	e.GET(tasksRoute, listTasks(store, logger))
	e.PUT(taskRoute, updateTask(store, pub, logger))
	e.DELETE(taskRoute, deleteTask(store, pub, logger))
	e.GET("/healthz", healthz(store))
}

func healthz(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p, ok := store.(pinger); ok {
			if err := p.Ping(c.Request().Context()); err != nil {
				return c.String(http.StatusServiceUnavailable, err.Error())
			}
		}
		return c.NoContent(http.StatusOK)
	}
}

func startRequest(c echo.Context, logger *log.Logger, route, operation string) (*taskRequestMetrics, context.Context) {
	metrics, ctx := newTaskRequestMetrics(c.Request().Context(), logger, route, operation)
	c.SetRequest(c.Request().WithContext(ctx))
	return metrics, ctx
}

func decodeTaskRequest(c echo.Context) (taskRequest, error) {
	lr := io.LimitReader(c.Request().Body, taskBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()

	var req taskRequest
	if err := dec.Decode(&req); err != nil {
		return taskRequest{}, errInvalidBody
	}
	return req, nil
}

func createTask(store Storage, pub Publisher, dedupe Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := startRequest(c, logger, tasksRoute, "create")
		var cause error
		defer func() {
			metrics.Log(c.Response().Status, errors.Join(cause, err))
		}()

		req, cause := decodeTaskRequest(c)
		if cause != nil {
			metrics.SetErrorStage("decode")
			return writeError(c, cause)
		}
		in, cause := req.input(false)
		if cause != nil {
			metrics.SetErrorStage("validate")
			return writeError(c, cause)
		}

		key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
		claimed := false
		if key != "" && dedupe != nil {
			added, dErr := dedupe.Add(ctx, key)
			switch {
			case dErr != nil:
				// Creating without the guard beats refusing the request.
				logger.WithError(dErr).Warn("idempotency check failed")
			case !added:
				metrics.SetErrorStage("duplicate")
				return c.JSON(http.StatusConflict, errorResponse{Error: "duplicate request", Type: errTypeConflict})
			default:
				claimed = true
			}
		}

		storeStart := time.Now()
		task, cause := store.CreateTask(ctx, in)
		metrics.ObserveStore(time.Since(storeStart))
		if cause != nil {
			metrics.SetErrorStage("storage")
			if claimed {
				if rErr := dedupe.Remove(ctx, key); rErr != nil {
					logger.WithError(rErr).Warn("release idempotency key failed")
				}
			}
			return writeError(c, cause)
		}
		metrics.SetTaskID(task.ID)

		publish(ctx, pub, logger, domain.TaskEvent{Type: domain.TaskCreated, TaskID: task.ID, Task: &task})
		return c.JSON(http.StatusCreated, task)
	}
}

func listTasks(store Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := startRequest(c, logger, tasksRoute, "list")
		var cause error
		defer func() {
			metrics.Log(c.Response().Status, errors.Join(cause, err))
		}()

		storeStart := time.Now()
		tasks, cause := store.ListTasks(ctx)
		metrics.ObserveStore(time.Since(storeStart))
		if cause != nil {
			metrics.SetErrorStage("storage")
			return writeError(c, cause)
		}
		if tasks == nil {
			tasks = []domain.Task{}
		}
		metrics.SetTasksReturned(len(tasks))
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func updateTask(store Storage, pub Publisher, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := startRequest(c, logger, taskRoute, "update")
		var cause error
		defer func() {
			metrics.Log(c.Response().Status, errors.Join(cause, err))
		}()

		id := c.Param("id")
		metrics.SetTaskID(id)
		req, cause := decodeTaskRequest(c)
		if cause != nil {
			metrics.SetErrorStage("decode")
			return writeError(c, cause)
		}
		in, cause := req.input(true)
		if cause != nil {
			metrics.SetErrorStage("validate")
			return writeError(c, cause)
		}

		storeStart := time.Now()
		task, cause := store.UpdateTask(ctx, id, in)
		metrics.ObserveStore(time.Since(storeStart))
		if cause != nil {
			metrics.SetErrorStage("storage")
			return writeError(c, cause)
		}

		publish(ctx, pub, logger, domain.TaskEvent{Type: domain.TaskUpdated, TaskID: task.ID, Task: &task})
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(store Storage, pub Publisher, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := startRequest(c, logger, taskRoute, "delete")
		var cause error
		defer func() {
			metrics.Log(c.Response().Status, errors.Join(cause, err))
		}()

		id := c.Param("id")
		metrics.SetTaskID(id)

		storeStart := time.Now()
		cause = store.DeleteTask(ctx, id)
		metrics.ObserveStore(time.Since(storeStart))
		if cause != nil {
			metrics.SetErrorStage("storage")
			return writeError(c, cause)
		}

		publish(ctx, pub, logger, domain.TaskEvent{Type: domain.TaskDeleted, TaskID: id})
		return c.JSON(http.StatusOK, deleteResponse{ID: id, Deleted: true})
	}
}

// publish hands the event to pub. Failures are logged only: the mutation is
// already stored.
func publish(ctx context.Context, pub Publisher, logger *log.Logger, ev domain.TaskEvent) {
	if pub == nil {
		return
	}
	ev.Time = time.Now().UnixNano()
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.Publish(pubCtx, ev); err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"event":   ev.Type,
			"task_id": ev.TaskID,
		}).Warn("publish task event failed")
	}
}
