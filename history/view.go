package history

import (
	"fmt"

	"github.com/smilemakc/jobtree/swf"
)

// AttributeMissingError reports that a logical field was not resolvable
// on an event (spec.md §4.1).
type AttributeMissingError struct {
	Field     string
	EventType string
}

func (e *AttributeMissingError) Error() string {
	return fmt.Sprintf("history: attribute %q missing on event type %q", e.Field, e.EventType)
}

// View normalizes access to a raw swf.Event's logical fields, whichever
// of the event's attribute bag they happen to live in.
type View struct {
	Event swf.Event
}

// NewView wraps a raw event.
func NewView(ev swf.Event) View { return View{Event: ev} }

// Get resolves a logical field by name: first against the event's own
// attribute bag, then one level into any nested map attribute (the
// shape workflow-execution events use for e.g. a nested execution
// object). Returns AttributeMissingError if the field is absent.
func (v View) Get(field string) (any, error) {
	if val, ok := v.Event.Attributes[field]; ok {
		return val, nil
	}
	for _, nested := range v.Event.Attributes {
		if m, ok := nested.(map[string]any); ok {
			if val, ok := m[field]; ok {
				return val, nil
			}
		}
	}
	return nil, &AttributeMissingError{Field: field, EventType: v.Event.EventType}
}

func (v View) getString(field string) (string, error) {
	val, err := v.Get(field)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("history: attribute %q on %q is not a string (got %T)", field, v.Event.EventType, val)
	}
	return s, nil
}

func (v View) getInt(field string) (int, error) {
	val, err := v.Get(field)
	if err != nil {
		return 0, err
	}
	switch n := val.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("history: attribute %q on %q is not numeric (got %T)", field, v.Event.EventType, val)
	}
}

func (v View) getInt64(field string) (int64, error) {
	n, err := v.getInt(field)
	return int64(n), err
}

// ActivityID resolves the "activityId" field.
func (v View) ActivityID() (string, error) { return v.getString("activityId") }

// ScheduledEventID resolves the "scheduledEventId" field: the event_id of
// the init event this follow-up event belongs to.
func (v View) ScheduledEventID() (int64, error) { return v.getInt64("scheduledEventId") }

// WorkflowID resolves the "workflowId" field.
func (v View) WorkflowID() (string, error) { return v.getString("workflowId") }

// Input resolves the "input" field.
func (v View) Input() (string, error) { return v.getString("input") }

// TaskPriority resolves the "taskPriority" field.
func (v View) TaskPriority() (int, error) { return v.getInt("taskPriority") }

// TagList resolves the "tagList" field.
func (v View) TagList() ([]string, error) {
	val, err := v.Get("tagList")
	if err != nil {
		return nil, err
	}
	switch tl := val.(type) {
	case []string:
		return tl, nil
	case []any:
		out := make([]string, 0, len(tl))
		for _, item := range tl {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("history: tagList entry is not a string (got %T)", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("history: attribute \"tagList\" on %q is not a list (got %T)", v.Event.EventType, val)
	}
}

// Reason resolves the "reason" field.
func (v View) Reason() (string, error) { return v.getString("reason") }

// Details resolves the "details" field.
func (v View) Details() (string, error) { return v.getString("details") }

// Result resolves the "result" field.
func (v View) Result() (string, error) { return v.getString("result") }

// InitiatedEventID resolves the "initiatedEventId" field (used by child
// workflow completion/failure events to point back at their Initiated
// event).
func (v View) InitiatedEventID() (int64, error) { return v.getInt64("initiatedEventId") }
