package decider

import (
	"encoding/json"
	"fmt"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/history"
	"github.com/smilemakc/jobtree/replay"
	"github.com/smilemakc/jobtree/swf"
)

// tick holds the mutable state of one Decide call: the shared cursor
// over the replay context's sorted unchecked steps, and the decisions
// queued so far this tick.
type tick struct {
	cfg       Config
	repCtx    *replay.Context
	cursor    int
	decisions []swf.Decision
}

func (t *tick) hasUnchecked() bool { return t.cursor < len(t.repCtx.Steps) }

// emit schedules child for the first time this workflow has seen it:
// ScheduleActivityTask for an Action, StartChildWorkflowExecution for a
// Task (spec.md §4.4 step 2-3).
func (t *tick) emit(child *jobtree.Node, tags []string, priority int) error {
	switch child.Kind {
	case jobtree.KindTask:
		return t.emitStartChildWorkflow(child, tags, priority, t.repCtx.NextWorkflowID(child.Title))
	case jobtree.KindAction:
		return t.emitScheduleActivity(child, priority, t.repCtx.NextActivityID())
	default:
		return fmt.Errorf("decider: unexpected child kind %v", child.Kind)
	}
}

func (t *tick) emitScheduleActivity(action *jobtree.Node, priority int, activityID string) error {
	input, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("decider: encode action input: %w", err)
	}
	taskList := action.Role
	if taskList == "" {
		taskList = t.cfg.DefaultActivityTaskList
	}
	t.decisions = append(t.decisions, swf.Decision{
		Kind: swf.DecisionScheduleActivityTask,
		ScheduleActivityTask: &swf.ScheduleActivityTaskAttrs{
			ActivityID:             activityID,
			ActivityType:           swf.ActivityType{Name: "Action", Version: "1.0"},
			TaskList:               swf.TaskList{Name: taskList},
			TaskPriority:           priority,
			Input:                  string(input),
			HeartbeatTimeout:       t.cfg.ActivityHeartbeatTimeout,
			ScheduleToCloseTimeout: t.cfg.ActivityScheduleToCloseTimeout,
			ScheduleToStartTimeout: t.cfg.ActivityScheduleToStartTimeout,
			StartToCloseTimeout:    t.cfg.ActivityStartToCloseTimeout,
		},
	})
	return nil
}

func (t *tick) emitStartChildWorkflow(task *jobtree.Node, tags []string, priority int, workflowID string) error {
	input, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("decider: encode task input: %w", err)
	}
	childTags := make([]string, 0, len(tags)+1)
	childTags = append(childTags, tags...)
	childTags = append(childTags, task.Title)

	t.decisions = append(t.decisions, swf.Decision{
		Kind: swf.DecisionStartChildWorkflowExecution,
		StartChildWorkflowExecution: &swf.StartChildWorkflowExecutionAttrs{
			WorkflowID:                   workflowID,
			WorkflowType:                 swf.WorkflowType{Name: "Task", Version: "1.0"},
			TaskList:                     swf.TaskList{Name: t.cfg.DefaultDecisionTaskList},
			TaskPriority:                 priority,
			Input:                        string(input),
			TagList:                      childTags,
			ChildPolicy:                  t.cfg.ChildPolicy,
			ExecutionStartToCloseTimeout: t.cfg.WorkflowExecutionTimeout,
			TaskStartToCloseTimeout:      t.cfg.DecisionTaskTimeout,
		},
	})
	return nil
}

// emitRetry re-emits child's schedule under its retry-name (spec.md
// §4.3's retry-name rule), reusing the original task-list/tags.
func (t *tick) emitRetry(step *history.Step, child *jobtree.Node, tags []string, priority int) error {
	if step.Kind == history.StepActivityTask {
		id, err := replay.RetryActivityID(step.Name, step.RetryCount())
		if err != nil {
			return err
		}
		return t.emitScheduleActivity(child, priority, id)
	}
	id, err := replay.RetryWorkflowID(step.Name, step.RetryCount())
	if err != nil {
		return err
	}
	return t.emitStartChildWorkflow(child, tags, priority, id)
}

// wait implements spec.md §4.4's wait() semantics for the child just
// processed. It pops the next unchecked step shared across the whole
// tick, not just this child's subtree, since steps are totally ordered
// by creation time and the walk visits children in that same order.
func (t *tick) wait(child *jobtree.Node, tags []string, priority int) (json.RawMessage, error) {
	if len(t.decisions) > 0 {
		return nil, errWaiting
	}
	if !t.hasUnchecked() {
		return nil, nil
	}

	step := t.repCtx.Steps[t.cursor]
	t.cursor++
	step.Checked = true

	switch step.Status() {
	case history.StatusScheduled, history.StatusStarted:
		return nil, errWaiting
	case history.StatusCompleted:
		raw, err := step.Result()
		if err != nil {
			return nil, fmt.Errorf("decider: decode step result: %w", err)
		}
		if raw == "" {
			raw = "null"
		}
		return json.RawMessage(raw), nil
	default:
		maxRetry := t.cfg.ActivityMaxRetry
		if step.Kind == history.StepChildWorkflowExecution {
			maxRetry = t.cfg.WorkflowMaxRetry
		}
		retryable := step.Status() == history.StatusFailed || step.Status() == history.StatusTimedOut
		if retryable && step.RetryCount() < maxRetry {
			if err := t.emitRetry(step, child, tags, priority); err != nil {
				return nil, err
			}
			return nil, errWaiting
		}
		reason, details := step.FailureReasonDetails()
		return nil, newTaskError(reason, details)
	}
}

// walkSerial runs spec.md §4.4's main walk for a non-parallel parent:
// emit at most one schedule per tick, then wait immediately collapses
// any emission into errWaiting. Before each child is considered, its
// When guard (if any) is checked against the running result of the
// last completed sibling; a false guard marks the child synthetically
// Completed with a nil result and never touches emit, wait, or the
// step cursor, since a guard-skipped child has no corresponding step
// in history to consume.
func (t *tick) walkSerial(parent *jobtree.Node, tags []string, parentPriority int) (json.RawMessage, error) {
	children := parent.NormalChildren()
	var result json.RawMessage
	for i, child := range children {
		priority := ChildPriority(parent, parentPriority, i)

		if child.When != "" {
			scheduled, err := evalWhen(child.When, result)
			if err != nil {
				return nil, err
			}
			if !scheduled {
				result = nil
				continue
			}
		}

		if !t.hasUnchecked() {
			if err := t.emit(child, tags, priority); err != nil {
				return nil, err
			}
		}
		r, err := t.wait(child, tags, priority)
		if err != nil {
			return nil, err
		}
		result = r
	}
	return result, nil
}

// walkParallel runs spec.md §4.4's two-pass parallel walk: schedule
// every unscheduled branch in one batch, then verify each in turn. A
// branch's When guard is decided before either pass runs: within one
// parallel batch no sibling has completed yet, so every guard sees a
// nil output. Guard-skipped branches are excluded from both passes and
// are completed synthetically with a nil result.
func (t *tick) walkParallel(parent *jobtree.Node, tags []string, parentPriority int) (json.RawMessage, error) {
	children := parent.NormalChildren()
	priority := parentPriority + 1

	skip := make([]bool, len(children))
	for i, child := range children {
		if child.When == "" {
			continue
		}
		scheduled, err := evalWhen(child.When, nil)
		if err != nil {
			return nil, err
		}
		skip[i] = !scheduled
	}

	for i, child := range children {
		if skip[i] {
			continue
		}
		if !t.hasUnchecked() {
			if err := t.emit(child, tags, priority); err != nil {
				return nil, err
			}
		}
	}

	var result json.RawMessage
	for i, child := range children {
		if skip[i] {
			result = nil
			continue
		}
		r, err := t.wait(child, tags, priority)
		if err != nil {
			return nil, err
		}
		result = r
	}
	return result, nil
}

func (t *tick) walk(parent *jobtree.Node, tags []string, priority int) (json.RawMessage, error) {
	if parent.Parallel {
		return t.walkParallel(parent, tags, priority)
	}
	return t.walkSerial(parent, tags, priority)
}

func (t *tick) suspend() *Outcome {
	return &Outcome{Kind: OutcomeSuspend, Decisions: t.decisions}
}

func (t *tick) complete(result json.RawMessage) *Outcome {
	raw := string(result)
	if raw == "" {
		raw = "null"
	}
	return &Outcome{Kind: OutcomeComplete, Result: truncate(raw, t.cfg.MaxResultSize)}
}

func (t *tick) fail(reason, details string) *Outcome {
	return &Outcome{
		Kind:    OutcomeFail,
		Reason:  truncate(reason, t.cfg.MaxReasonSize),
		Details: truncate(details, t.cfg.MaxDetailSize),
	}
}
