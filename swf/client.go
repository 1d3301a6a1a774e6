package swf

import "context"

// Client is the workflow-service collaborator. Polling, decision
// submission, and activity responses are named here as interfaces only
// (spec.md §1); the concrete RPC transport (retries, pagination,
// backoff) lives outside the core.
type Client interface {
	// PollForDecisionTask long-polls one decision task from taskList.
	// Returns a nil task (no error) if the long-poll times out empty.
	PollForDecisionTask(ctx context.Context, taskList string) (*DecisionTask, error)

	// RespondDecisionTaskCompleted submits a decision batch for a task.
	RespondDecisionTaskCompleted(ctx context.Context, taskToken string, decisions []Decision) error

	// PollForActivityTask long-polls one activity task from taskList.
	// Returns a nil task (no error) if the long-poll times out empty.
	PollForActivityTask(ctx context.Context, taskList string) (*ActivityTask, error)

	// RespondActivityTaskCompleted reports a successful activity result.
	RespondActivityTaskCompleted(ctx context.Context, taskToken, result string) error

	// RespondActivityTaskFailed reports a failed activity.
	RespondActivityTaskFailed(ctx context.Context, taskToken, reason, details string) error

	// RespondActivityTaskCanceled reports a canceled activity.
	RespondActivityTaskCanceled(ctx context.Context, taskToken string) error

	// RecordActivityTaskHeartbeat reports liveness for a running activity
	// and returns whether cancellation has been requested.
	RecordActivityTaskHeartbeat(ctx context.Context, taskToken, details string) (cancelRequested bool, err error)

	// StartWorkflowExecution starts a new workflow run.
	StartWorkflowExecution(ctx context.Context, in StartWorkflowExecutionInput) (workflowID, runID string, err error)
}
