package swf

import "time"

// Event is a single raw history record. Field names follow the AWS SWF
// history schema named in spec.md §6: a type string plus a
// type-dependent attribute bag, optionally nested under a workflow
// execution sub-object. EventAttributes keys use the exact wire
// casing (camelCase) the reference service emits, e.g. "activityId",
// "scheduledEventId", "taskPriority".
type Event struct {
	EventID        int64          `json:"eventId"`
	EventTimestamp time.Time      `json:"eventTimestamp"`
	EventType      string         `json:"eventType"`
	Attributes     map[string]any `json:"attributes"`
}

// WorkflowExecution identifies one run of a workflow.
type WorkflowExecution struct {
	WorkflowID string `json:"workflowId"`
	RunID      string `json:"runId"`
}

// TaskList names a poll queue.
type TaskList struct {
	Name string `json:"name"`
}

// ActivityType names an activity's type/version pair.
type ActivityType struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// WorkflowType names a workflow's type/version pair.
type WorkflowType struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DecisionTask is handed to the decider: the full history of one
// workflow execution plus a token to respond with.
type DecisionTask struct {
	TaskToken         string
	WorkflowExecution WorkflowExecution
	WorkflowType      WorkflowType
	Events            []Event
}

// ActivityTask is handed to a worker: opaque input plus a token to
// respond with.
type ActivityTask struct {
	TaskToken    string
	ActivityID   string
	ActivityType ActivityType
	Input        string
}

// ChildPolicy controls what happens to children when a workflow closes.
type ChildPolicy string

const (
	ChildPolicyTerminate     ChildPolicy = "TERMINATE"
	ChildPolicyRequestCancel ChildPolicy = "REQUEST_CANCEL"
	ChildPolicyAbandon       ChildPolicy = "ABANDON"
)

// DecisionKind enumerates the decision kinds used by this system
// (spec.md §6): a strict subset of the full SWF decision vocabulary.
type DecisionKind string

const (
	DecisionScheduleActivityTask          DecisionKind = "ScheduleActivityTask"
	DecisionStartChildWorkflowExecution   DecisionKind = "StartChildWorkflowExecution"
	DecisionCompleteWorkflowExecution     DecisionKind = "CompleteWorkflowExecution"
	DecisionFailWorkflowExecution         DecisionKind = "FailWorkflowExecution"
)

// ScheduleActivityTaskAttrs is the kind-specific attribute object for a
// ScheduleActivityTask decision.
type ScheduleActivityTaskAttrs struct {
	ActivityID             string
	ActivityType           ActivityType
	TaskList               TaskList
	TaskPriority           int
	Input                  string
	HeartbeatTimeout       time.Duration
	ScheduleToCloseTimeout time.Duration
	ScheduleToStartTimeout time.Duration
	StartToCloseTimeout    time.Duration
}

// StartChildWorkflowExecutionAttrs is the kind-specific attribute object
// for a StartChildWorkflowExecution decision.
type StartChildWorkflowExecutionAttrs struct {
	WorkflowID                   string
	WorkflowType                 WorkflowType
	TaskList                     TaskList
	TaskPriority                 int
	Input                        string
	TagList                      []string
	ChildPolicy                  ChildPolicy
	ExecutionStartToCloseTimeout time.Duration
	TaskStartToCloseTimeout      time.Duration
}

// CompleteWorkflowExecutionAttrs is the kind-specific attribute object
// for a CompleteWorkflowExecution decision.
type CompleteWorkflowExecutionAttrs struct {
	Result string
}

// FailWorkflowExecutionAttrs is the kind-specific attribute object for a
// FailWorkflowExecution decision.
type FailWorkflowExecutionAttrs struct {
	Reason  string
	Details string
}

// Decision is one entry of a decision batch (spec.md §3 "Decision
// batch"). Exactly one of the kind-specific attribute fields is set,
// matching Kind.
type Decision struct {
	Kind DecisionKind

	ScheduleActivityTask        *ScheduleActivityTaskAttrs
	StartChildWorkflowExecution *StartChildWorkflowExecutionAttrs
	CompleteWorkflowExecution   *CompleteWorkflowExecutionAttrs
	FailWorkflowExecution       *FailWorkflowExecutionAttrs
}

// IsTerminal reports whether d closes the workflow.
func (d Decision) IsTerminal() bool {
	return d.Kind == DecisionCompleteWorkflowExecution || d.Kind == DecisionFailWorkflowExecution
}

// StartWorkflowExecutionInput is the request shape for submission (G).
type StartWorkflowExecutionInput struct {
	WorkflowID                   string
	WorkflowType                 WorkflowType
	TaskList                     TaskList
	TaskPriority                 int
	Input                        string
	TagList                      []string
	ChildPolicy                  ChildPolicy
	ExecutionStartToCloseTimeout time.Duration
	TaskStartToCloseTimeout      time.Duration
}
