package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/decider"
)

func priorityKey(workflowID string, index int) string {
	return fmt.Sprintf("jobtree:priority:%s:%d", workflowID, index)
}

// ChildPriority returns decider.ChildPriority(parent, parentPriority, i),
// memoized under workflowID for ten minutes. A decision task can be redelivered
// (the service retries an unanswered poll), and across redeliveries the
// parent/priority/index inputs are identical, so the cached value is
// always a correct short-circuit, not just a performance hint.
func (c *Cache) ChildPriority(ctx context.Context, workflowID string, parent *jobtree.Node, parentPriority, i int) int {
	key := priorityKey(workflowID, i)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		if n, convErr := strconv.Atoi(cached); convErr == nil {
			return n
		}
	}

	priority := decider.ChildPriority(parent, parentPriority, i)
	_ = c.client.Set(ctx, key, strconv.Itoa(priority), 10*time.Minute).Err()
	return priority
}
