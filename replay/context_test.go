package replay

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

func TestParse_PlainInput(t *testing.T) {
	events := []swf.Event{
		ev(1, "WorkflowExecutionStarted", map[string]any{
			"input":        `{"Job":{"title":"J","children":[]}}`,
			"tagList":      []any{"J"},
			"taskPriority": 1,
		}),
	}

	ctx, err := Parse(Config{ActivityMaxRetry: 2, WorkflowMaxRetry: 0}, events, NoProtocols{})
	require.NoError(t, err)
	assert.Equal(t, "J", ctx.Input.Title)
	assert.Equal(t, []string{"J"}, ctx.TagList)
	assert.Equal(t, 1, ctx.Priority)
	assert.Empty(t, ctx.Steps)
}

func TestParse_EnvelopedInputWithNilProtocol(t *testing.T) {
	events := []swf.Event{
		ev(1, "WorkflowExecutionStarted", map[string]any{
			"input": `{"protocol":null,"body":{"Job":{"title":"J"}}}`,
		}),
	}
	ctx, err := Parse(Config{}, events, NoProtocols{})
	require.NoError(t, err)
	assert.Equal(t, "J", ctx.Input.Title)
}

func TestNextActivityID_Sequence(t *testing.T) {
	ctx := &Context{cfg: Config{ActivityMaxRetry: 2}}
	assert.Equal(t, "0", ctx.NextActivityID())
	assert.Equal(t, "3", ctx.NextActivityID())
	assert.Equal(t, "6", ctx.NextActivityID())
}

func TestNextActivityID_AccountsForExistingSteps(t *testing.T) {
	ctx := &Context{cfg: Config{ActivityMaxRetry: 2}, existingActivity: 1}
	assert.Equal(t, "3", ctx.NextActivityID())
	assert.Equal(t, "6", ctx.NextActivityID())
}

func TestNextWorkflowID_Format(t *testing.T) {
	ctx := &Context{cfg: Config{WorkflowMaxRetry: 0}}
	id := ctx.NextWorkflowID("T")
	assert.Regexp(t, `^T-[0-9a-f-]{36}-0$`, id)
	id2 := ctx.NextWorkflowID("T")
	assert.Regexp(t, `^T-[0-9a-f-]{36}-1$`, id2)
}

func TestRetryActivityID_StaysInBlock(t *testing.T) {
	id, err := RetryActivityID("3", 0)
	require.NoError(t, err)
	assert.Equal(t, "4", id)

	id, err = RetryActivityID("3", 1)
	require.NoError(t, err)
	assert.Equal(t, "5", id)
}

func TestRetryWorkflowID_PreservesPrefix(t *testing.T) {
	id, err := RetryWorkflowID("T-abcd-0000-0", 0)
	require.NoError(t, err)
	assert.Equal(t, "T-abcd-0000-1", id)
}
