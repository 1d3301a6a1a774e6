package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a redis.UniversalClient with the two key spaces this
// package owns: "jobtree:cancel:<taskToken>" and
// "jobtree:priority:<workflowId>:<index>".
type Cache struct {
	client redis.UniversalClient
}

// New wraps an existing redis client. Pass a *redis.Client from
// redis.NewClient in production, or one pointed at a miniredis instance
// in tests.
func New(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

func cancelKey(taskToken string) string {
	return "jobtree:cancel:" + taskToken
}

// RequestCancel marks taskToken for cancellation; the worker's next
// heartbeat observes it via CancelRequested. ttl bounds how long the
// request stays pending if the worker never polls it (e.g. the activity
// already finished).
func (c *Cache) RequestCancel(ctx context.Context, taskToken string, ttl time.Duration) error {
	if err := c.client.Set(ctx, cancelKey(taskToken), "1", ttl).Err(); err != nil {
		return fmt.Errorf("cache: request cancel: %w", err)
	}
	return nil
}

// CancelRequested reports whether taskToken has a pending cancellation
// request.
func (c *Cache) CancelRequested(ctx context.Context, taskToken string) (bool, error) {
	n, err := c.client.Exists(ctx, cancelKey(taskToken)).Result()
	if err != nil {
		return false, fmt.Errorf("cache: check cancel: %w", err)
	}
	return n > 0, nil
}

// ClearCancel removes a pending cancellation request, e.g. once the
// worker has acted on it.
func (c *Cache) ClearCancel(ctx context.Context, taskToken string) error {
	if err := c.client.Del(ctx, cancelKey(taskToken)).Err(); err != nil {
		return fmt.Errorf("cache: clear cancel: %w", err)
	}
	return nil
}
