package jobtree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		node    *Node
		wantErr bool
	}{
		{
			name: "job at root with task and action",
			node: Job("J", false, Task("T", false, Action("echo", false, nil))),
		},
		{
			name:    "task at root is invalid",
			node:    Task("T", false),
			wantErr: true,
		},
		{
			name:    "action at root is invalid",
			node:    Action("echo", false, nil),
			wantErr: true,
		},
		{
			name: "nested job is invalid",
			node: Job("J", false, Job("J2", false)),
			wantErr: true,
		},
		{
			name: "action with children is invalid",
			node: func() *Node {
				n := Action("echo", false, nil)
				n.Children = []*Node{Action("echo2", false, nil)}
				return n
			}(),
			wantErr: true,
		},
		{
			name: "when_error on task is invalid",
			node: func() *Node {
				n := Task("T", false)
				n.WhenError = true
				return n
			}(),
			wantErr: true,
		},
		{
			name:    "when_error on action is valid",
			node:    Action("shell", true, map[string]any{"cmd": "echo oops"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNode_ErrorHandlersAndNormalChildren(t *testing.T) {
	primary := Action("shell", false, map[string]any{"cmd": "fakecmd"})
	handler := Action("shell", true, map[string]any{"cmd": "echo oops"})
	task := Task("T", false, primary, handler)

	assert.Equal(t, []*Node{primary}, task.NormalChildren())
	assert.Equal(t, []*Node{handler}, task.ErrorHandlers())
}

func TestNode_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := Job("J", false,
		Task("T", true,
			Action("echo", false, map[string]any{"msg": "hi"}),
			Action("shell", true, map[string]any{"cmd": "echo oops"}),
		),
	)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Job":`)
	assert.Contains(t, string(data), `"Task":`)
	assert.Contains(t, string(data), `"Action":`)

	var decoded Node
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.Kind, decoded.Kind)
	assert.Equal(t, original.Title, decoded.Title)
	require.Len(t, decoded.Children, 1)
	assert.Equal(t, original.Children[0].Parallel, decoded.Children[0].Parallel)
	require.Len(t, decoded.Children[0].Children, 2)
	assert.Equal(t, "echo", decoded.Children[0].Children[0].Role)
	assert.Equal(t, "hi", decoded.Children[0].Children[0].Params["msg"])
	assert.True(t, decoded.Children[0].Children[1].WhenError)
}

func TestNode_UnmarshalJSON_RejectsMultiKeyEnvelope(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"Job":{},"Task":{}}`), &n)
	assert.Error(t, err)
}
