package storage

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/Vishalsongara77/Task-App/domain"
)

const tasksCacheKey = "tasks:all"

type backend interface {
	CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Cache wraps a store with a Redis-backed copy of the full task list.
// Every write evicts the cached list.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) ListTasks(ctx context.Context) ([]domain.Task, error) {
	if tasks, ok := c.loadTasks(ctx); ok {
		return tasks, nil
	}

	tasks, err := c.base.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	c.storeTasks(ctx, tasks)
	return tasks, nil
}

func (c *Cache) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	task, err := c.base.CreateTask(ctx, in)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error) {
	task, err := c.base.UpdateTask(ctx, id, in)
	if err != nil {
		if domain.IsNotFound(err) {
			// the cached list may still carry the missing task
			c.evict(ctx)
		}
		return domain.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) DeleteTask(ctx context.Context, id string) error {
	err := c.base.DeleteTask(ctx, id)
	if err == nil || domain.IsNotFound(err) {
		c.evict(ctx)
	}
	return err
}

// Ping checks the wrapped store when it supports health checks.
func (c *Cache) Ping(ctx context.Context) error {
	if p, ok := c.base.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *Cache) loadTasks(ctx context.Context) ([]domain.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, tasksCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing store without failing.
			_ = c.redis.Del(ctx, tasksCacheKey).Err()
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, tasksCacheKey).Err()
		return nil, false
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, true
}

func (c *Cache) storeTasks(ctx context.Context, tasks []domain.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(tasks)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, tasksCacheKey, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, tasksCacheKey).Result()
}
