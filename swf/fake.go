package swf

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Fake is an in-memory Client used by tests: a minimal simulation of the
// workflow service's event-sourced model. It is not a production
// implementation — no persistence, no real network, no pagination — but
// it honors the same history shape (spec.md §6) so the decider and
// history parser can be exercised end to end without a real backend.
type Fake struct {
	mu sync.Mutex

	runs          map[string]*fakeRun
	decisionQueue []string
	activityQueue map[string][]*pendingActivity
	inFlight      map[string]*pendingActivity // taskToken -> activity, once polled
	nextEventID   map[string]int64
	clock         int64 // monotonic counter standing in for wall-clock event_timestamp
}

type fakeRun struct {
	workflowID   string
	runID        string
	workflowType WorkflowType
	events       []Event

	closed bool

	parentWorkflowID        string
	parentInitiatingEventID int64
}

type pendingActivity struct {
	workflowID       string
	activityID       string
	scheduledEventID int64
	input            string
	cancelRequested  bool
}

// NewFake creates an empty Fake service.
func NewFake() *Fake {
	return &Fake{
		runs:          make(map[string]*fakeRun),
		activityQueue: make(map[string][]*pendingActivity),
		inFlight:      make(map[string]*pendingActivity),
		nextEventID:   make(map[string]int64),
	}
}

func (f *Fake) appendEvent(workflowID, eventType string, attrs map[string]any) Event {
	f.nextEventID[workflowID]++
	f.clock++
	ev := Event{
		EventID:        f.nextEventID[workflowID],
		EventTimestamp: time.Unix(f.clock, 0).UTC(),
		EventType:      eventType,
		Attributes:     attrs,
	}
	f.runs[workflowID].events = append(f.runs[workflowID].events, ev)
	return ev
}

func activityTaskToken(workflowID, activityID string) string {
	return workflowID + "|" + activityID
}

// StartWorkflowExecution implements Client.
func (f *Fake) StartWorkflowExecution(_ context.Context, in StartWorkflowExecutionInput) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.runs[in.WorkflowID]; exists {
		return "", "", fmt.Errorf("swf/fake: workflow %s already exists", in.WorkflowID)
	}

	runID := in.WorkflowID + "-run"
	f.runs[in.WorkflowID] = &fakeRun{
		workflowID:   in.WorkflowID,
		runID:        runID,
		workflowType: in.WorkflowType,
	}

	f.appendEvent(in.WorkflowID, "WorkflowExecutionStarted", map[string]any{
		"input":        in.Input,
		"tagList":      in.TagList,
		"taskPriority": in.TaskPriority,
		"taskList":     in.TaskList.Name,
		"workflowType": in.WorkflowType,
		"childPolicy":  in.ChildPolicy,
	})

	f.decisionQueue = append(f.decisionQueue, in.WorkflowID)
	return in.WorkflowID, runID, nil
}

func (f *Fake) startChildWorkflow(parentWorkflowID string, initiatedEventID int64, a StartChildWorkflowExecutionAttrs) {
	runID := a.WorkflowID + "-run"
	f.runs[a.WorkflowID] = &fakeRun{
		workflowID:              a.WorkflowID,
		runID:                   runID,
		workflowType:            a.WorkflowType,
		parentWorkflowID:        parentWorkflowID,
		parentInitiatingEventID: initiatedEventID,
	}
	f.appendEvent(a.WorkflowID, "WorkflowExecutionStarted", map[string]any{
		"input":        a.Input,
		"tagList":      a.TagList,
		"taskPriority": a.TaskPriority,
		"workflowType": a.WorkflowType,
		"childPolicy":  a.ChildPolicy,
	})
	f.decisionQueue = append(f.decisionQueue, a.WorkflowID)
}

// PollForDecisionTask implements Client.
func (f *Fake) PollForDecisionTask(_ context.Context, _ string) (*DecisionTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.decisionQueue) == 0 {
		return nil, nil
	}
	workflowID := f.decisionQueue[0]
	f.decisionQueue = f.decisionQueue[1:]

	run, ok := f.runs[workflowID]
	if !ok {
		return nil, fmt.Errorf("swf/fake: unknown workflow %s", workflowID)
	}

	events := make([]Event, len(run.events))
	copy(events, run.events)

	return &DecisionTask{
		TaskToken:         workflowID,
		WorkflowExecution: WorkflowExecution{WorkflowID: run.workflowID, RunID: run.runID},
		WorkflowType:      run.workflowType,
		Events:            events,
	}, nil
}

// RespondDecisionTaskCompleted implements Client.
func (f *Fake) RespondDecisionTaskCompleted(_ context.Context, taskToken string, decisions []Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	workflowID := taskToken
	run, ok := f.runs[workflowID]
	if !ok {
		return fmt.Errorf("swf/fake: unknown workflow %s", workflowID)
	}

	for _, d := range decisions {
		switch d.Kind {
		case DecisionScheduleActivityTask:
			a := d.ScheduleActivityTask
			ev := f.appendEvent(workflowID, "ActivityTaskScheduled", map[string]any{
				"activityId":             a.ActivityID,
				"activityType":           a.ActivityType,
				"taskList":               a.TaskList.Name,
				"taskPriority":           a.TaskPriority,
				"input":                  a.Input,
				"heartbeatTimeout":       a.HeartbeatTimeout,
				"scheduleToCloseTimeout": a.ScheduleToCloseTimeout,
				"scheduleToStartTimeout": a.ScheduleToStartTimeout,
				"startToCloseTimeout":    a.StartToCloseTimeout,
			})
			f.activityQueue[a.TaskList.Name] = append(f.activityQueue[a.TaskList.Name], &pendingActivity{
				workflowID:       workflowID,
				activityID:       a.ActivityID,
				scheduledEventID: ev.EventID,
				input:            a.Input,
			})

		case DecisionStartChildWorkflowExecution:
			a := d.StartChildWorkflowExecution
			ev := f.appendEvent(workflowID, "StartChildWorkflowExecutionInitiated", map[string]any{
				"workflowId":                   a.WorkflowID,
				"workflowType":                 a.WorkflowType,
				"taskList":                     a.TaskList.Name,
				"taskPriority":                 a.TaskPriority,
				"input":                        a.Input,
				"tagList":                      a.TagList,
				"childPolicy":                  a.ChildPolicy,
				"executionStartToCloseTimeout": a.ExecutionStartToCloseTimeout,
				"taskStartToCloseTimeout":      a.TaskStartToCloseTimeout,
			})
			f.startChildWorkflow(workflowID, ev.EventID, *a)

		case DecisionCompleteWorkflowExecution:
			a := d.CompleteWorkflowExecution
			f.appendEvent(workflowID, "WorkflowExecutionCompleted", map[string]any{
				"result": a.Result,
			})
			run.closed = true
			f.propagateToParent(run, true, a.Result, "", "")

		case DecisionFailWorkflowExecution:
			a := d.FailWorkflowExecution
			f.appendEvent(workflowID, "WorkflowExecutionFailed", map[string]any{
				"reason":  a.Reason,
				"details": a.Details,
			})
			run.closed = true
			f.propagateToParent(run, false, "", a.Reason, a.Details)
		}
	}
	return nil
}

func (f *Fake) propagateToParent(child *fakeRun, succeeded bool, result, reason, details string) {
	if child.parentWorkflowID == "" {
		return
	}
	parent, ok := f.runs[child.parentWorkflowID]
	if !ok {
		return
	}
	if succeeded {
		f.appendEvent(parent.workflowID, "ChildWorkflowExecutionCompleted", map[string]any{
			"workflowId":       child.workflowID,
			"result":           result,
			"initiatedEventId": child.parentInitiatingEventID,
		})
	} else {
		f.appendEvent(parent.workflowID, "ChildWorkflowExecutionFailed", map[string]any{
			"workflowId":       child.workflowID,
			"reason":           reason,
			"details":          details,
			"initiatedEventId": child.parentInitiatingEventID,
		})
	}
	f.decisionQueue = append(f.decisionQueue, parent.workflowID)
}

// PollForActivityTask implements Client.
func (f *Fake) PollForActivityTask(_ context.Context, taskList string) (*ActivityTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := f.activityQueue[taskList]
	if len(q) == 0 {
		return nil, nil
	}
	pa := q[0]
	f.activityQueue[taskList] = q[1:]

	f.appendEvent(pa.workflowID, "ActivityTaskStarted", map[string]any{
		"scheduledEventId": pa.scheduledEventID,
	})

	token := activityTaskToken(pa.workflowID, pa.activityID)
	f.inFlight[token] = pa

	return &ActivityTask{
		TaskToken:  token,
		ActivityID: pa.activityID,
		Input:      pa.input,
	}, nil
}

func (f *Fake) resolveActivity(taskToken string) (*fakeRun, int64, error) {
	workflowID, _, ok := cutToken(taskToken)
	if !ok {
		return nil, 0, fmt.Errorf("swf/fake: malformed task token %q", taskToken)
	}
	run, ok := f.runs[workflowID]
	if !ok {
		return nil, 0, fmt.Errorf("swf/fake: unknown workflow %s", workflowID)
	}
	var scheduledEventID int64
	if pa, ok := f.inFlight[taskToken]; ok {
		scheduledEventID = pa.scheduledEventID
	}
	delete(f.inFlight, taskToken)
	return run, scheduledEventID, nil
}

func cutToken(s string) (string, string, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '|' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// RespondActivityTaskCompleted implements Client.
func (f *Fake) RespondActivityTaskCompleted(_ context.Context, taskToken, result string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, scheduledEventID, err := f.resolveActivity(taskToken)
	if err != nil {
		return err
	}
	f.appendEvent(run.workflowID, "ActivityTaskCompleted", map[string]any{
		"scheduledEventId": scheduledEventID,
		"result":           result,
	})
	f.decisionQueue = append(f.decisionQueue, run.workflowID)
	return nil
}

// RespondActivityTaskFailed implements Client.
func (f *Fake) RespondActivityTaskFailed(_ context.Context, taskToken, reason, details string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, scheduledEventID, err := f.resolveActivity(taskToken)
	if err != nil {
		return err
	}
	f.appendEvent(run.workflowID, "ActivityTaskFailed", map[string]any{
		"scheduledEventId": scheduledEventID,
		"reason":           reason,
		"details":          details,
	})
	f.decisionQueue = append(f.decisionQueue, run.workflowID)
	return nil
}

// RespondActivityTaskCanceled implements Client.
func (f *Fake) RespondActivityTaskCanceled(_ context.Context, taskToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	run, scheduledEventID, err := f.resolveActivity(taskToken)
	if err != nil {
		return err
	}
	f.appendEvent(run.workflowID, "ActivityTaskCancelled", map[string]any{
		"scheduledEventId": scheduledEventID,
	})
	f.decisionQueue = append(f.decisionQueue, run.workflowID)
	return nil
}

// RecordActivityTaskHeartbeat implements Client.
func (f *Fake) RecordActivityTaskHeartbeat(_ context.Context, taskToken, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pa, ok := f.inFlight[taskToken]
	if !ok {
		return false, fmt.Errorf("swf/fake: no in-flight activity for token %q", taskToken)
	}
	return pa.cancelRequested, nil
}

// CancelActivity marks the in-flight activity identified by workflowID
// and activityID for cancellation: the next heartbeat reports
// cancelRequested = true. Test helper only.
func (f *Fake) CancelActivity(workflowID, activityID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := activityTaskToken(workflowID, activityID)
	if pa, ok := f.inFlight[token]; ok {
		pa.cancelRequested = true
	}
}

// TimeoutActivity simulates a missed heartbeat: it appends an
// ActivityTaskTimedOut event directly, bypassing the worker. Test helper
// only.
func (f *Fake) TimeoutActivity(workflowID, activityID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendEvent(workflowID, "ActivityTaskTimedOut", map[string]any{
		"timeoutType": "HEARTBEAT",
	})
	f.decisionQueue = append(f.decisionQueue, workflowID)
}

// Events returns a copy of the full history of workflowID. Test helper.
func (f *Fake) Events(workflowID string) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[workflowID]
	if !ok {
		return nil
	}
	out := make([]Event, len(run.events))
	copy(out, run.events)
	return out
}

// IsClosed reports whether workflowID has completed or failed. Test
// helper.
func (f *Fake) IsClosed(workflowID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[workflowID]
	return ok && run.closed
}
