package apiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Ensure CachedClient implements domain.API.
var _ domain.API = (*CachedClient)(nil)

// CachedClient wraps a Client with a Redis read-through cache for the task
// list, shared by every taskdesk process pointed at the same Redis. Task
// mutations evict the entry.
type CachedClient struct {
	*Client
	redis  *redis.Client
	logger domain.Logger
	key    string
	ttl    time.Duration
}

// NewCachedClient wraps base. A nil redis client disables caching.
func NewCachedClient(base *Client, client *redis.Client, ttl time.Duration, logger domain.Logger) *CachedClient {
	if base == nil {
		panic("apiclient.NewCachedClient: base client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &CachedClient{
		Client: base,
		redis:  client,
		logger: logger,
		key:    tasksCacheKey(base.BaseURL()),
		ttl:    ttl,
	}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache redis_url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func tasksCacheKey(baseURL string) string {
	return "taskdesk:tasks:" + baseURL
}

// ListTasks serves the task list from Redis when present.
func (c *CachedClient) ListTasks(ctx context.Context) ([]domain.Task, error) {
	if tasks, ok := c.load(ctx); ok {
		c.logger.Debug(0, "cache", "task list served from cache")
		return tasks, nil
	}
	tasks, err := c.Client.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, tasks)
	return tasks, nil
}

// CreateTask creates a task and evicts the cached list.
func (c *CachedClient) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	return c.evictAfter(ctx)(c.Client.CreateTask(ctx, task))
}

// UpdateTask replaces a task and evicts the cached list.
func (c *CachedClient) UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	return c.evictAfter(ctx)(c.Client.UpdateTask(ctx, task))
}

// ChangePriority moves a task and evicts the cached list.
func (c *CachedClient) ChangePriority(ctx context.Context, id int, priority domain.Priority) (*domain.Task, error) {
	return c.evictAfter(ctx)(c.Client.ChangePriority(ctx, id, priority))
}

// ChangeVisibility sets visibility and evicts the cached list.
func (c *CachedClient) ChangeVisibility(ctx context.Context, id int, visibility domain.Visibility) (*domain.Task, error) {
	return c.evictAfter(ctx)(c.Client.ChangeVisibility(ctx, id, visibility))
}

// DeleteTask removes a task and evicts the cached list.
func (c *CachedClient) DeleteTask(ctx context.Context, id int) error {
	if err := c.Client.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *CachedClient) evictAfter(ctx context.Context) func(*domain.Task, error) (*domain.Task, error) {
	return func(t *domain.Task, err error) (*domain.Task, error) {
		if err != nil {
			return nil, err
		}
		c.evict(ctx)
		return t, nil
	}
}

func (c *CachedClient) load(ctx context.Context) ([]domain.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Fall back to the API without failing.
			c.logger.Warn(0, "cache", fmt.Sprintf("redis get failed: %v", err))
			_ = c.redis.Del(ctx, c.key).Err()
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, c.key).Err()
		return nil, false
	}
	return tasks, true
}

func (c *CachedClient) store(ctx context.Context, tasks []domain.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(tasks)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.Warn(0, "cache", fmt.Sprintf("redis set failed: %v", err))
	}
}

func (c *CachedClient) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, c.key).Result()
}
