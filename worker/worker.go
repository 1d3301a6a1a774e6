package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/logging"
	"github.com/smilemakc/jobtree/replay"
	"github.com/smilemakc/jobtree/swf"
	"github.com/smilemakc/jobtree/tracing"
)

// Worker runs spec.md §4.6's activity-worker loop against one task list.
type Worker struct {
	Client   swf.Client
	TaskList string
	Registry *Registry
	Loader   replay.InputLoader
	Config   Config
	Logger   *logging.Logger
}

// New returns a Worker with DefaultConfig and the given collaborators.
// Pass replay.NoProtocols{} for loader if input externalization is not
// configured.
func New(client swf.Client, taskList string, registry *Registry, loader replay.InputLoader) *Worker {
	return &Worker{
		Client:   client,
		TaskList: taskList,
		Registry: registry,
		Loader:   loader,
		Config:   DefaultConfig(),
		Logger:   logging.Default().With("component", "worker", "task_list", taskList),
	}
}

type roleResult struct {
	value any
	err   error
}

// RunOnce implements `run(task_list)` (spec.md §4.6): a single long-poll
// plus, if a task was returned, a full execute-and-respond cycle. A nil
// return with no task handled means the poll timed out empty; callers
// loop.
func (w *Worker) RunOnce(ctx context.Context) error {
	task, err := w.Client.PollForActivityTask(ctx, w.TaskList)
	if err != nil {
		return fmt.Errorf("worker: poll activity task: %w", err)
	}
	if task == nil {
		return nil
	}

	node, err := replay.ParseInput(task.Input, w.Loader)
	if err != nil {
		return w.respondFailed(ctx, task.TaskToken, "decode activity input", err.Error())
	}
	if node.Kind != jobtree.KindAction {
		return w.respondFailed(ctx, task.TaskToken, "unexpected activity input kind", node.Kind.String())
	}

	fn, ok := w.Registry.Lookup(node.Role)
	if !ok {
		return w.respondFailed(ctx, task.TaskToken, "no handler registered for role", node.Role)
	}

	return w.execute(ctx, task, node, fn)
}

// execute runs fn in its own goroutine (standing in for the subprocess
// sandbox named out of scope in spec.md §1), heartbeating the service on
// Config.HeartbeatInterval and reporting the outcome once the handler
// returns or cancellation is requested.
func (w *Worker) execute(ctx context.Context, task *swf.ActivityTask, node *jobtree.Node, fn RoleFunc) (err error) {
	ctx, span := tracing.StartSpan(ctx, "worker.execute")
	span.SetAttributes(
		attribute.String("jobtree.activity_id", task.ActivityID),
		attribute.String("jobtree.role", node.Role),
	)
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan roleResult, 1)
	go func() {
		v, err := fn(childCtx, visibleParams(node.Params))
		resultCh <- roleResult{value: v, err: err}
	}()

	ticker := time.NewTicker(w.Config.HeartbeatInterval)
	defer ticker.Stop()

	heartbeatFailures := 0
	for {
		select {
		case res := <-resultCh:
			if res.err != nil {
				return w.respondFailed(ctx, task.TaskToken, res.err.Error(), fmt.Sprintf("%+v", res.err))
			}
			return w.respondCompleted(ctx, task.TaskToken, res.value)

		case <-ticker.C:
			cancelRequested, err := w.Client.RecordActivityTaskHeartbeat(ctx, task.TaskToken, "")
			if err != nil {
				heartbeatFailures++
				w.Logger.Warn("heartbeat failed", "attempt", heartbeatFailures, "error", err)
				if heartbeatFailures > w.Config.HeartbeatMaxRetry {
					cancel()
					<-resultCh
					return fmt.Errorf("worker: heartbeat transport error after %d retries: %w", w.Config.HeartbeatMaxRetry, err)
				}
				continue
			}
			heartbeatFailures = 0
			if cancelRequested {
				cancel()
				<-resultCh
				return w.Client.RespondActivityTaskCanceled(ctx, task.TaskToken)
			}
		}
	}
}

func (w *Worker) respondCompleted(ctx context.Context, taskToken string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return w.respondFailed(ctx, taskToken, "encode activity result", err.Error())
	}
	return w.Client.RespondActivityTaskCompleted(ctx, taskToken, truncate(string(raw), w.Config.MaxResultSize))
}

func (w *Worker) respondFailed(ctx context.Context, taskToken, reason, details string) error {
	return w.Client.RespondActivityTaskFailed(
		ctx, taskToken,
		truncate(reason, w.Config.MaxReasonSize),
		truncate(details, w.Config.MaxDetailSize),
	)
}
