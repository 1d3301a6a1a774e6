package cache

import (
	"context"

	"github.com/smilemakc/jobtree/swf"
)

// CancelAwareClient decorates a swf.Client so RecordActivityTaskHeartbeat
// also honors out-of-band cancellation requests recorded in Cache with
// Cache.RequestCancel, a channel back to a running worker that does not
// go through the workflow service.
type CancelAwareClient struct {
	swf.Client
	Cache *Cache
}

// NewCancelAwareClient wraps underlying with cache-backed cancellation.
func NewCancelAwareClient(underlying swf.Client, cache *Cache) *CancelAwareClient {
	return &CancelAwareClient{Client: underlying, Cache: cache}
}

// RecordActivityTaskHeartbeat reports cancelRequested = true if either
// the underlying service or the cache says so, then clears the cache
// entry once observed so it doesn't keep firing after the worker acts
// on it.
func (c *CancelAwareClient) RecordActivityTaskHeartbeat(ctx context.Context, taskToken, details string) (bool, error) {
	cancelRequested, err := c.Client.RecordActivityTaskHeartbeat(ctx, taskToken, details)
	if err != nil {
		return false, err
	}
	if cancelRequested {
		return true, nil
	}

	cached, err := c.Cache.CancelRequested(ctx, taskToken)
	if err != nil {
		// A cache failure should not fail the heartbeat itself — the
		// service-side cancelRequested is still authoritative.
		return false, nil
	}
	if cached {
		_ = c.Cache.ClearCancel(ctx, taskToken)
		return true, nil
	}
	return false, nil
}
