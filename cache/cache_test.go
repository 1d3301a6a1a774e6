package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/cache"
	"github.com/smilemakc/jobtree/swf"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.New(client)
}

func TestCache_RequestCancel_CancelRequestedRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ok, err := c.CancelRequested(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.RequestCancel(ctx, "tok-1", time.Minute))

	ok, err = c.CancelRequested(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.ClearCancel(ctx, "tok-1"))
	ok, err = c.CancelRequested(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

type stubClient struct {
	swf.Client
	serviceCancel bool
	calls         int
}

func (s *stubClient) RecordActivityTaskHeartbeat(context.Context, string, string) (bool, error) {
	s.calls++
	return s.serviceCancel, nil
}

func TestCancelAwareClient_FallsBackToCacheWhenServiceSaysNo(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.RequestCancel(ctx, "tok-1", time.Minute))

	stub := &stubClient{serviceCancel: false}
	decorated := cache.NewCancelAwareClient(stub, c)

	cancelRequested, err := decorated.RecordActivityTaskHeartbeat(ctx, "tok-1", "")
	require.NoError(t, err)
	assert.True(t, cancelRequested)
	assert.Equal(t, 1, stub.calls)

	// the cache entry is cleared after being observed once
	cached, err := c.CancelRequested(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestCancelAwareClient_ServiceCancelShortCircuitsCache(t *testing.T) {
	c := newTestCache(t)
	stub := &stubClient{serviceCancel: true}
	decorated := cache.NewCancelAwareClient(stub, c)

	cancelRequested, err := decorated.RecordActivityTaskHeartbeat(context.Background(), "tok-2", "")
	require.NoError(t, err)
	assert.True(t, cancelRequested)
}

func TestCache_ChildPriority_MemoizesAcrossCalls(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	root := jobtree.Job("J", false,
		jobtree.Task("T0", false, jobtree.Action("r", false, nil)),
		jobtree.Task("T1", false, jobtree.Action("r", false, nil)),
	)

	first := c.ChildPriority(ctx, "wf-1", root, 1, 1)
	second := c.ChildPriority(ctx, "wf-1", root, 1, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, first)
}
