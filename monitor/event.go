package monitor

import "time"

// ExecutionEvent is the wire shape pushed to WebSocket subscribers each
// time the decider or a worker observes something about one workflow
// execution: a decision tick completing, an activity starting or
// finishing. It deliberately mirrors swf.Event's public fields
// rather than embedding it, so the monitor's wire format stays stable
// even if the replay-facing event shape changes.
type ExecutionEvent struct {
	WorkflowID string         `json:"workflow_id"`
	RunID      string         `json:"run_id"`
	EventType  string         `json:"event_type"`
	Timestamp  time.Time      `json:"timestamp"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// Publisher is how the decider/worker side of the process reports
// activity to a running monitor without importing it — cmd/jobtreed
// wires a *Server in as a Publisher after both are constructed.
type Publisher interface {
	Publish(event ExecutionEvent)
}
