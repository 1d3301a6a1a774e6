package swf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Client = (*Fake)(nil)

func TestFake_SingleActivityRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := NewFake()

	workflowID, _, err := f.StartWorkflowExecution(ctx, StartWorkflowExecutionInput{
		WorkflowID: "J",
		TaskList:   TaskList{Name: "decisions"},
		Input:      `{"hello":"world"}`,
	})
	require.NoError(t, err)

	task, err := f.PollForDecisionTask(ctx, "decisions")
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "WorkflowExecutionStarted", task.Events[0].EventType)

	err = f.RespondDecisionTaskCompleted(ctx, task.TaskToken, []Decision{
		{
			Kind: DecisionScheduleActivityTask,
			ScheduleActivityTask: &ScheduleActivityTaskAttrs{
				ActivityID: "0",
				TaskList:   TaskList{Name: "echo"},
				Input:      `{"msg":"hi"}`,
			},
		},
	})
	require.NoError(t, err)

	at, err := f.PollForActivityTask(ctx, "echo")
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.Equal(t, "0", at.ActivityID)

	require.NoError(t, f.RespondActivityTaskCompleted(ctx, at.TaskToken, `{"ok":true}`))

	task2, err := f.PollForDecisionTask(ctx, "decisions")
	require.NoError(t, err)
	require.NotNil(t, task2)

	var sawCompleted bool
	for _, ev := range task2.Events {
		if ev.EventType == "ActivityTaskCompleted" {
			sawCompleted = true
		}
	}
	assert.True(t, sawCompleted)

	require.NoError(t, f.RespondDecisionTaskCompleted(ctx, task2.TaskToken, []Decision{
		{Kind: DecisionCompleteWorkflowExecution, CompleteWorkflowExecution: &CompleteWorkflowExecutionAttrs{Result: "null"}},
	}))

	assert.True(t, f.IsClosed(workflowID))
}
