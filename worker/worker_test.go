package worker_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/replay"
	"github.com/smilemakc/jobtree/swf"
	"github.com/smilemakc/jobtree/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is a minimal swf.Client stub scoped to the activity-side
// methods the worker exercises; decision-side methods are unused here
// (the decider package's own tests drive those against swf.Fake).
type fakeClient struct {
	mu sync.Mutex

	pending []*swf.ActivityTask

	completedResult string
	failedReason    string
	failedDetails   string
	canceled        bool

	heartbeats      int
	heartbeatErr    error
	cancelRequested bool
}

func (f *fakeClient) PollForDecisionTask(context.Context, string) (*swf.DecisionTask, error) {
	return nil, nil
}
func (f *fakeClient) RespondDecisionTaskCompleted(context.Context, string, []swf.Decision) error {
	return nil
}
func (f *fakeClient) StartWorkflowExecution(context.Context, swf.StartWorkflowExecutionInput) (string, string, error) {
	return "", "", nil
}

func (f *fakeClient) PollForActivityTask(_ context.Context, _ string) (*swf.ActivityTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return nil, nil
	}
	task := f.pending[0]
	f.pending = f.pending[1:]
	return task, nil
}

func (f *fakeClient) RespondActivityTaskCompleted(_ context.Context, _ string, result string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completedResult = result
	return nil
}

func (f *fakeClient) RespondActivityTaskFailed(_ context.Context, _ string, reason, details string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failedReason = reason
	f.failedDetails = details
	return nil
}

func (f *fakeClient) RespondActivityTaskCanceled(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = true
	return nil
}

func (f *fakeClient) RecordActivityTaskHeartbeat(_ context.Context, _ string, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats++
	if f.heartbeatErr != nil {
		return false, f.heartbeatErr
	}
	return f.cancelRequested, nil
}

func actionTask(role string, params map[string]any) *swf.ActivityTask {
	raw, err := json.Marshal(jobtree.Action(role, false, params))
	if err != nil {
		panic(err)
	}
	return &swf.ActivityTask{TaskToken: "tok-1", ActivityID: "0", Input: string(raw)}
}

func TestRunOnce_NoTaskReturnsNil(t *testing.T) {
	client := &fakeClient{}
	w := worker.New(client, "echo", worker.NewRegistry(), replay.NoProtocols{})
	err := w.RunOnce(context.Background())
	require.NoError(t, err)
}

func TestRunOnce_SuccessRespondsCompleted(t *testing.T) {
	client := &fakeClient{pending: []*swf.ActivityTask{actionTask("echo", map[string]any{"msg": "hi"})}}
	reg := worker.NewRegistry()
	require.NoError(t, reg.Register("echo", func(_ context.Context, params map[string]any) (any, error) {
		return params["msg"], nil
	}))

	w := worker.New(client, "echo", reg, replay.NoProtocols{})
	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, `"hi"`, client.completedResult)
}

func TestRunOnce_HandlerErrorRespondsFailed(t *testing.T) {
	client := &fakeClient{pending: []*swf.ActivityTask{actionTask("shell", map[string]any{"cmd": "fakecmd"})}}
	reg := worker.NewRegistry()
	require.NoError(t, reg.Register("shell", func(context.Context, map[string]any) (any, error) {
		return nil, assertErr{"command not found"}
	}))

	w := worker.New(client, "shell", reg, replay.NoProtocols{})
	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, "command not found", client.failedReason)
}

func TestRunOnce_UnregisteredRoleRespondsFailed(t *testing.T) {
	client := &fakeClient{pending: []*swf.ActivityTask{actionTask("missing", nil)}}
	w := worker.New(client, "missing", worker.NewRegistry(), replay.NoProtocols{})
	require.NoError(t, w.RunOnce(context.Background()))
	assert.Contains(t, client.failedReason, "no handler registered")
}

func TestRunOnce_UnderscoreParamsHiddenFromRole(t *testing.T) {
	client := &fakeClient{pending: []*swf.ActivityTask{actionTask("echo", map[string]any{"msg": "hi", "_internal": "secret"})}}
	reg := worker.NewRegistry()
	var seen map[string]any
	require.NoError(t, reg.Register("echo", func(_ context.Context, params map[string]any) (any, error) {
		seen = params
		return "ok", nil
	}))

	w := worker.New(client, "echo", reg, replay.NoProtocols{})
	require.NoError(t, w.RunOnce(context.Background()))
	_, hasInternal := seen["_internal"]
	assert.False(t, hasInternal)
	assert.Equal(t, "hi", seen["msg"])
}

func TestRunOnce_CancelRequestedDuringHeartbeatRespondsCanceled(t *testing.T) {
	client := &fakeClient{pending: []*swf.ActivityTask{actionTask("shell", map[string]any{"cmd": "sleep 10"})}}
	reg := worker.NewRegistry()
	started := make(chan struct{})
	require.NoError(t, reg.Register("shell", func(ctx context.Context, _ map[string]any) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	w := worker.New(client, "shell", reg, replay.NoProtocols{})
	w.Config.HeartbeatInterval = 5 * time.Millisecond

	go func() {
		<-started
		time.Sleep(10 * time.Millisecond)
		client.mu.Lock()
		client.cancelRequested = true
		client.mu.Unlock()
	}()

	require.NoError(t, w.RunOnce(context.Background()))
	assert.True(t, client.canceled)
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }
