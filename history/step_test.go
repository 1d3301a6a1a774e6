package history

import (
	"testing"
	"time"

	"github.com/smilemakc/jobtree/swf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(id int64, typ string, attrs map[string]any) swf.Event {
	return swf.Event{EventID: id, EventTimestamp: time.Unix(id, 0), EventType: typ, Attributes: attrs}
}

func TestAggregate_SingleActivityCompletes(t *testing.T) {
	events := []swf.Event{
		ev(1, "WorkflowExecutionStarted", map[string]any{"input": "{}"}),
		ev(2, "ActivityTaskScheduled", map[string]any{"activityId": "0"}),
		ev(3, "ActivityTaskStarted", map[string]any{"scheduledEventId": int64(2)}),
		ev(4, "ActivityTaskCompleted", map[string]any{"scheduledEventId": int64(2), "result": `{"ok":true}`}),
	}

	steps, err := Aggregate(events, 2, 0)
	require.NoError(t, err)
	require.Len(t, steps, 1)

	s := steps[0]
	assert.Equal(t, StepActivityTask, s.Kind)
	assert.Equal(t, "0", s.Name)
	assert.Equal(t, StatusCompleted, s.Status())
	assert.Equal(t, 0, s.RetryCount())

	result, err := s.Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, result)
}

func TestAggregate_RetryCollapsesIntoOneBucket(t *testing.T) {
	// activity_max_retry = 2 => block width 3: ids 0,1,2 share a bucket.
	events := []swf.Event{
		ev(1, "WorkflowExecutionStarted", nil),
		ev(2, "ActivityTaskScheduled", map[string]any{"activityId": "0"}),
		ev(3, "ActivityTaskStarted", map[string]any{"scheduledEventId": int64(2)}),
		ev(4, "ActivityTaskFailed", map[string]any{"scheduledEventId": int64(2), "reason": "boom"}),
		ev(5, "ActivityTaskScheduled", map[string]any{"activityId": "1"}),
		ev(6, "ActivityTaskStarted", map[string]any{"scheduledEventId": int64(5)}),
		ev(7, "ActivityTaskCompleted", map[string]any{"scheduledEventId": int64(5), "result": "null"}),
	}

	steps, err := Aggregate(events, 2, 0)
	require.NoError(t, err)
	require.Len(t, steps, 1)

	s := steps[0]
	assert.Equal(t, 6, len(s.Events))
	assert.Equal(t, 1, s.RetryCount())
	assert.Equal(t, StatusCompleted, s.Status())
	assert.Equal(t, "1", s.Name)
}

func TestAggregate_ChildWorkflowBucketsByWorkflowID(t *testing.T) {
	events := []swf.Event{
		ev(1, "WorkflowExecutionStarted", nil),
		ev(2, "StartChildWorkflowExecutionInitiated", map[string]any{"workflowId": "T-uuid-0"}),
		ev(3, "ChildWorkflowExecutionCompleted", map[string]any{"workflowId": "T-uuid-0", "result": "null", "initiatedEventId": int64(2)}),
	}

	steps, err := Aggregate(events, 2, 0)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, StepChildWorkflowExecution, steps[0].Kind)
	assert.Equal(t, StatusCompleted, steps[0].Status())
}

func TestAggregate_DropsDecisionAndWorkflowSelfEvents(t *testing.T) {
	events := []swf.Event{
		ev(1, "WorkflowExecutionStarted", nil),
		ev(2, "DecisionTaskScheduled", nil),
		ev(3, "DecisionTaskStarted", nil),
		ev(4, "DecisionTaskCompleted", nil),
		ev(5, "WorkflowExecutionCompleted", map[string]any{"result": "null"}),
	}
	steps, err := Aggregate(events, 2, 0)
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParseNumericSuffix(t *testing.T) {
	n, err := ParseNumericSuffix("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ParseNumericSuffix("T-abcd-1234-6")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = ParseNumericSuffix("no-digits-here-x")
	assert.Error(t, err)
}

func TestView_Get_MissingField(t *testing.T) {
	v := NewView(ev(1, "ActivityTaskScheduled", map[string]any{"activityId": "0"}))
	_, err := v.Get("taskPriority")
	require.Error(t, err)
	var amErr *AttributeMissingError
	assert.ErrorAs(t, err, &amErr)
}

func TestView_NestedAttributeLookup(t *testing.T) {
	v := NewView(ev(1, "ChildWorkflowExecutionStarted", map[string]any{
		"workflowExecution": map[string]any{"workflowId": "T-uuid-0"},
	}))
	id, err := v.WorkflowID()
	require.NoError(t, err)
	assert.Equal(t, "T-uuid-0", id)
}
