package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/swf"
)

// Config holds the submission-side defaults of spec.md §6's
// configuration table.
type Config struct {
	DefaultDecisionTaskList  string
	WorkflowExecutionTimeout time.Duration
	DecisionTaskTimeout      time.Duration
	ChildPolicy              swf.ChildPolicy
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		DefaultDecisionTaskList:  "decisions",
		WorkflowExecutionTimeout: 7 * 24 * time.Hour,
		DecisionTaskTimeout:      60 * time.Second,
		ChildPolicy:              swf.ChildPolicyTerminate,
	}
}

// Submit implements spec.md §4.7's `submit(job, protocol?, priority=1)`:
// validates job, optionally externalizes it under protocol, and starts
// the root workflow execution.
func Submit(ctx context.Context, client swf.Client, cfg Config, saver Saver, job *jobtree.Node, protocol string, priority int) (workflowID, runID string, err error) {
	if job.Kind != jobtree.KindJob {
		return "", "", fmt.Errorf("submit: %w: node is not a Job", ErrUnsupportedScheduler)
	}
	if err := job.Validate(); err != nil {
		return "", "", fmt.Errorf("submit: %w: %v", ErrUnsupportedScheduler, err)
	}

	if saver == nil {
		saver = NoProtocols{}
	}
	input, err := wireInput(job, protocol, saver)
	if err != nil {
		return "", "", err
	}

	return client.StartWorkflowExecution(ctx, swf.StartWorkflowExecutionInput{
		WorkflowID:                   job.Title,
		WorkflowType:                 swf.WorkflowType{Name: "Job", Version: "1.0"},
		TaskList:                     swf.TaskList{Name: cfg.DefaultDecisionTaskList},
		TaskPriority:                 priority,
		Input:                        input,
		TagList:                      []string{job.Title},
		ChildPolicy:                  cfg.ChildPolicy,
		ExecutionStartToCloseTimeout: cfg.WorkflowExecutionTimeout,
		TaskStartToCloseTimeout:      cfg.DecisionTaskTimeout,
	})
}
