package decider

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/smilemakc/jobtree/replay"
	"github.com/smilemakc/jobtree/swf"
	"github.com/smilemakc/jobtree/tracing"
)

// Decide runs one decision tick over repCtx and reports exactly one of
// Suspend/Complete/Fail (spec.md §4.4's public contract).
func Decide(cfg Config, repCtx *replay.Context) *Outcome {
	t := &tick{cfg: cfg, repCtx: repCtx}
	result, err := t.walk(repCtx.Input, repCtx.TagList, repCtx.Priority)
	if err == nil {
		return t.complete(result)
	}
	if errors.Is(err, errWaiting) {
		return t.suspend()
	}

	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		// UnexpectedException (spec.md §7): convert and propagate identically.
		taskErr = newTaskError(err.Error(), "")
	}
	return handleFailure(t, taskErr)
}

// handleFailure runs spec.md §4.4's error-handler pass: only the
// when_error=true Actions, in order, each followed by wait(). The
// handler pass continues the same step cursor where the main walk left
// off, since handler steps are scheduled strictly after the failure
// that triggered them.
func handleFailure(t *tick, orig *TaskError) *Outcome {
	handlers := t.repCtx.Input.ErrorHandlers()
	if len(handlers) == 0 {
		return t.fail(orig.Reason, orig.Details)
	}

	et := &tick{cfg: t.cfg, repCtx: t.repCtx, cursor: t.cursor}
	for _, h := range handlers {
		priority := t.repCtx.Priority + 1
		if !et.hasUnchecked() {
			if err := et.emit(h, t.repCtx.TagList, priority); err != nil {
				return t.fail(err.Error(), "")
			}
		}
		_, err := et.wait(h, t.repCtx.TagList, priority)
		if err == nil {
			continue
		}
		if errors.Is(err, errWaiting) {
			return et.suspend()
		}
		var herr *TaskError
		if errors.As(err, &herr) {
			// The handler pass itself failed: its failure replaces the
			// original as the workflow failure (spec.md §4.4).
			return t.fail(herr.Reason, herr.Details)
		}
		return t.fail(err.Error(), "")
	}

	// Handler pass completed cleanly: the workflow still fails, with the
	// original reason/details.
	return t.fail(orig.Reason, orig.Details)
}

// Run executes one full iteration of spec.md §4.4's public contract:
// long-poll one decision task from taskList, decide, and respond. A
// nil-task poll (empty long-poll) is a no-op.
func Run(ctx context.Context, client swf.Client, taskList string, cfg Config, loader replay.InputLoader) (err error) {
	task, err := client.PollForDecisionTask(ctx, taskList)
	if err != nil {
		return fmt.Errorf("decider: poll decision task: %w", err)
	}
	if task == nil {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "decider.Run")
	span.SetAttributes(
		attribute.String("jobtree.workflow_id", task.WorkflowExecution.WorkflowID),
		attribute.String("jobtree.run_id", task.WorkflowExecution.RunID),
	)
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	repCtx, err := replay.Parse(replay.Config{
		ActivityMaxRetry: cfg.ActivityMaxRetry,
		WorkflowMaxRetry: cfg.WorkflowMaxRetry,
	}, task.Events, loader)
	if err != nil {
		return fmt.Errorf("decider: parse history: %w", err)
	}

	outcome := Decide(cfg, repCtx)
	if err := client.RespondDecisionTaskCompleted(ctx, task.TaskToken, outcome.ToDecisions()); err != nil {
		return fmt.Errorf("decider: respond decision task: %w", err)
	}
	return nil
}
