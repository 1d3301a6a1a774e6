package replay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/history"
	"github.com/smilemakc/jobtree/swf"
)

// Config carries the retry budgets the ID allocator and step aggregator
// need (spec.md §6 "activity_max_retry" / "workflow_max_retry").
type Config struct {
	ActivityMaxRetry int
	WorkflowMaxRetry int
}

// Context is the per-decision-tick replay state (spec.md §3 "Replay
// context"). It is rebuilt from history on every tick and never persists
// across ticks.
type Context struct {
	Input    *jobtree.Node
	TagList  []string
	Priority int
	Steps    []*history.Step

	cfg              Config
	existingActivity int
	existingWorkflow int
	activityNewborns int
	workflowNewborns int
}

// Parse builds the replay Context for one decision task's history.
func Parse(cfg Config, events []swf.Event, loader InputLoader) (*Context, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("replay: empty history")
	}

	var start *swf.Event
	for i := range events {
		if strings.HasPrefix(events[i].EventType, "Decision") {
			continue
		}
		start = &events[i]
		break
	}
	if start == nil || start.EventType != "WorkflowExecutionStarted" {
		return nil, fmt.Errorf("replay: first non-decision event is not WorkflowExecutionStarted")
	}

	v := history.NewView(*start)

	rawInput, err := v.Input()
	if err != nil {
		return nil, fmt.Errorf("replay: workflow start event missing input: %w", err)
	}
	node, err := ParseInput(rawInput, loader)
	if err != nil {
		return nil, err
	}

	tagList, err := v.TagList()
	if err != nil {
		tagList = nil
	}

	priority, err := v.TaskPriority()
	if err != nil {
		priority = 0
	}

	steps, err := history.Aggregate(events, cfg.ActivityMaxRetry, cfg.WorkflowMaxRetry)
	if err != nil {
		return nil, err
	}

	existingActivity, existingWorkflow := 0, 0
	for _, s := range steps {
		if s.Kind == history.StepActivityTask {
			existingActivity++
		} else {
			existingWorkflow++
		}
	}

	return &Context{
		Input:            node,
		TagList:          tagList,
		Priority:         priority,
		Steps:            steps,
		cfg:              cfg,
		existingActivity: existingActivity,
		existingWorkflow: existingWorkflow,
	}, nil
}

// NextActivityID allocates the next activity id deterministically:
// (existing + newborns-this-tick) * (max_retry + 1).
func (c *Context) NextActivityID() string {
	n := (c.existingActivity + c.activityNewborns) * (c.cfg.ActivityMaxRetry + 1)
	c.activityNewborns++
	return strconv.Itoa(n)
}

// NextWorkflowID allocates the next child workflow id deterministically:
// "<prefix>-<uuid>-<(existing + newborns) * (max_retry + 1)>".
func (c *Context) NextWorkflowID(prefix string) string {
	n := (c.existingWorkflow + c.workflowNewborns) * (c.cfg.WorkflowMaxRetry + 1)
	c.workflowNewborns++
	return fmt.Sprintf("%s-%s-%d", prefix, uuid.NewString(), n)
}

// RetryActivityID computes the retry name of a failed activity step: its
// current id with the suffix replaced by current_suffix + retryCount + 1,
// keeping it inside the same max_retry+1 block.
func RetryActivityID(currentID string, retryCount int) (string, error) {
	n, err := history.ParseNumericSuffix(currentID)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n + retryCount + 1), nil
}

// RetryWorkflowID computes the retry name of a failed child workflow
// step, same rule as RetryActivityID but preserving the "<prefix>-<uuid>"
// portion of the id.
func RetryWorkflowID(currentID string, retryCount int) (string, error) {
	idx := strings.LastIndex(currentID, "-")
	if idx < 0 {
		return "", fmt.Errorf("replay: workflow id %q has no numeric suffix", currentID)
	}
	n, err := strconv.Atoi(currentID[idx+1:])
	if err != nil {
		return "", fmt.Errorf("replay: workflow id %q has no numeric suffix: %w", currentID, err)
	}
	return fmt.Sprintf("%s-%d", currentID[:idx], n+retryCount+1), nil
}
