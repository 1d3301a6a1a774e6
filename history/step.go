package history

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/smilemakc/jobtree/swf"
)

// StepKind distinguishes the two schedulable unit kinds.
type StepKind int

const (
	StepActivityTask StepKind = iota
	StepChildWorkflowExecution
)

func (k StepKind) String() string {
	if k == StepActivityTask {
		return "ActivityTask"
	}
	return "ChildWorkflowExecution"
}

// StepStatus is the derived status of a Step, taken from its last event.
type StepStatus int

const (
	StatusScheduled StepStatus = iota
	StatusStarted
	StatusCompleted
	StatusFailed
	StatusTimedOut
	StatusCancelled
	StatusScheduleFailed
	StatusInitiateFailed
)

func (s StepStatus) String() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusStarted:
		return "Started"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	case StatusTimedOut:
		return "TimedOut"
	case StatusCancelled:
		return "Cancelled"
	case StatusScheduleFailed:
		return "ScheduleFailed"
	case StatusInitiateFailed:
		return "InitiateFailed"
	default:
		return "Unknown"
	}
}

// Step aggregates the events of one logical scheduled unit across all of
// its retry attempts (spec.md §3, §4.2).
type Step struct {
	Kind    StepKind
	Name    string // current activity-id or workflow-id for the latest attempt
	Events  []swf.Event
	Checked bool // transient, per decision tick
}

// InitEvent returns the step's first event: its Scheduled/Initiated
// event, or the corresponding failure-to-schedule counterpart.
func (s *Step) InitEvent() swf.Event { return s.Events[0] }

// Status derives the step's status from its last event.
func (s *Step) Status() StepStatus {
	last := s.Events[len(s.Events)-1]
	switch {
	case strings.HasSuffix(last.EventType, "Completed"):
		return StatusCompleted
	case strings.HasSuffix(last.EventType, "TimedOut"):
		return StatusTimedOut
	case strings.HasSuffix(last.EventType, "Cancelled"), strings.HasSuffix(last.EventType, "Canceled"):
		return StatusCancelled
	case strings.HasSuffix(last.EventType, "ScheduleActivityTaskFailed"):
		return StatusScheduleFailed
	case strings.HasSuffix(last.EventType, "StartChildWorkflowExecutionFailed"):
		return StatusInitiateFailed
	case strings.HasSuffix(last.EventType, "Failed"):
		return StatusFailed
	case strings.HasSuffix(last.EventType, "Started"):
		return StatusStarted
	default:
		return StatusScheduled
	}
}

// RetryCount is the number of attempts beyond the first: the count of
// init events (Scheduled|Initiated) in this step's event list, minus 1.
func (s *Step) RetryCount() int {
	n := 0
	for _, ev := range s.Events {
		if strings.HasSuffix(ev.EventType, "Scheduled") || strings.HasSuffix(ev.EventType, "Initiated") {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// Result returns the JSON-encoded result of a Completed step.
func (s *Step) Result() (string, error) {
	last := s.Events[len(s.Events)-1]
	return NewView(last).Result()
}

// FailureReasonDetails returns the reason/details of a Failed or
// TimedOut step.
func (s *Step) FailureReasonDetails() (reason string, details string) {
	last := s.Events[len(s.Events)-1]
	v := NewView(last)
	reason, _ = v.Reason()
	details, _ = v.Details()
	if reason == "" && s.Status() == StatusTimedOut {
		reason = "activity timed out"
	}
	return reason, details
}

// ParseNumericSuffix extracts the trailing integer of an id: either the
// whole string (plain activity ids) or the token after the last '-'
// (workflow ids of the form "<prefix>-<uuid>-<n>").
func ParseNumericSuffix(id string) (int, error) {
	if n, err := strconv.Atoi(id); err == nil {
		return n, nil
	}
	idx := strings.LastIndex(id, "-")
	if idx < 0 {
		return 0, fmt.Errorf("history: id %q has no numeric suffix", id)
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("history: id %q has no numeric suffix: %w", id, err)
	}
	return n, nil
}

// bucketBase canonicalizes N into the base of its retry block: the
// contiguous block of maxRetry+1 slots that all attempts of one logical
// step share (spec.md §4.2, §4.3).
func bucketBase(n, maxRetry int) int {
	width := maxRetry + 1
	return n - (n % width)
}

// Aggregate groups a decision task's raw history into Steps, per
// spec.md §4.2:
//  1. drop Decision*/Workflow* self-events.
//  2. compute each remaining event's bucket name.
//  3. append into that bucket.
//  4. each bucket becomes a Step, sorted by its init event's timestamp.
func Aggregate(events []swf.Event, activityMaxRetry, workflowMaxRetry int) ([]*Step, error) {
	byID := make(map[int64]swf.Event, len(events))
	for _, ev := range events {
		byID[ev.EventID] = ev
	}

	type bucket struct {
		kind   StepKind
		events []swf.Event
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, ev := range events {
		if strings.HasPrefix(ev.EventType, "Decision") || strings.HasPrefix(ev.EventType, "Workflow") {
			continue
		}

		var kind StepKind
		var key string

		switch {
		case strings.HasPrefix(ev.EventType, "ActivityTask"):
			kind = StepActivityTask
			id, err := resolveActivityID(ev, byID)
			if err != nil {
				return nil, err
			}
			n, err := ParseNumericSuffix(id)
			if err != nil {
				return nil, err
			}
			key = fmt.Sprintf("activity-%d", bucketBase(n, activityMaxRetry))

		case strings.HasPrefix(ev.EventType, "StartChildWorkflowExecution"), strings.HasPrefix(ev.EventType, "ChildWorkflowExecution"):
			kind = StepChildWorkflowExecution
			id, err := NewView(ev).WorkflowID()
			if err != nil {
				return nil, fmt.Errorf("history: child workflow event %q missing workflowId: %w", ev.EventType, err)
			}
			n, err := ParseNumericSuffix(id)
			if err != nil {
				return nil, err
			}
			key = fmt.Sprintf("workflow-%d", bucketBase(n, workflowMaxRetry))

		default:
			continue
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{kind: kind}
			buckets[key] = b
			order = append(order, key)
		}
		b.events = append(b.events, ev)
	}

	steps := make([]*Step, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		sort.SliceStable(b.events, func(i, j int) bool {
			return b.events[i].EventID < b.events[j].EventID
		})
		name, err := stepCurrentName(b.kind, b.events[len(b.events)-1], byID)
		if err != nil {
			return nil, err
		}
		steps = append(steps, &Step{Kind: b.kind, Name: name, Events: b.events})
	}

	sort.SliceStable(steps, func(i, j int) bool {
		ti, tj := steps[i].InitEvent().EventTimestamp, steps[j].InitEvent().EventTimestamp
		if ti.Equal(tj) {
			return steps[i].InitEvent().EventID < steps[j].InitEvent().EventID
		}
		return ti.Before(tj)
	})
	return steps, nil
}

// resolveActivityID finds the activity-id of an ActivityTask event: its
// own "activityId" if it's a Scheduled event, otherwise the activityId
// of the Scheduled event its "scheduledEventId" points at.
func resolveActivityID(ev swf.Event, byID map[int64]swf.Event) (string, error) {
	if strings.HasSuffix(ev.EventType, "Scheduled") {
		return NewView(ev).ActivityID()
	}
	scheduledID, err := NewView(ev).ScheduledEventID()
	if err != nil {
		return "", fmt.Errorf("history: %q missing scheduledEventId: %w", ev.EventType, err)
	}
	scheduled, ok := byID[scheduledID]
	if !ok {
		return "", fmt.Errorf("history: scheduledEventId %d not found in history", scheduledID)
	}
	return NewView(scheduled).ActivityID()
}

// stepCurrentName returns the identity (activity-id or workflow-id) of
// the step's latest attempt, taken from its most recent init-bearing
// event.
func stepCurrentName(kind StepKind, last swf.Event, byID map[int64]swf.Event) (string, error) {
	if kind == StepChildWorkflowExecution {
		return NewView(last).WorkflowID()
	}
	if strings.HasSuffix(last.EventType, "Scheduled") {
		return NewView(last).ActivityID()
	}
	return resolveActivityID(last, byID)
}
