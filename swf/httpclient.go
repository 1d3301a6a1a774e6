package swf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTransport marks a TransportError (spec.md §7): an RPC failure
// talking to the workflow service, as opposed to a rejection the
// service itself returned.
var ErrTransport = errors.New("transport error")

// HTTPClient is a thin JSON-over-HTTP implementation of Client. It is
// the one concrete transport this module ships, standing in for
// whatever RPC stack a real workflow service exposes (spec.md §1 names
// "the concrete RPC transport" as an out-of-scope collaborator) — just
// enough for cmd/jobtreectl and cmd/jobtreed to have something runnable
// to point at.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// HTTPClientConfig configures an HTTPClient.
type HTTPClientConfig struct {
	APIKey  string
	Timeout time.Duration
}

// NewHTTPClient builds an HTTPClient against baseURL (no trailing
// slash required).
func NewHTTPClient(baseURL string, cfg HTTPClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, path string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("swf: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("swf: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("swf: %w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("swf: %w: %s: %s", ErrTransport, resp.Status, string(data))
	}
	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("swf: decode response: %w", err)
	}
	return nil
}

type pollDecisionTaskRequest struct {
	TaskList string `json:"taskList"`
}

func (c *HTTPClient) PollForDecisionTask(ctx context.Context, taskList string) (*DecisionTask, error) {
	var resp struct {
		Task *DecisionTask `json:"task"`
	}
	if err := c.do(ctx, "/decision-tasks/poll", pollDecisionTaskRequest{TaskList: taskList}, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

type respondDecisionTaskCompletedRequest struct {
	TaskToken string     `json:"taskToken"`
	Decisions []Decision `json:"decisions"`
}

func (c *HTTPClient) RespondDecisionTaskCompleted(ctx context.Context, taskToken string, decisions []Decision) error {
	return c.do(ctx, "/decision-tasks/complete", respondDecisionTaskCompletedRequest{TaskToken: taskToken, Decisions: decisions}, nil)
}

type pollActivityTaskRequest struct {
	TaskList string `json:"taskList"`
}

func (c *HTTPClient) PollForActivityTask(ctx context.Context, taskList string) (*ActivityTask, error) {
	var resp struct {
		Task *ActivityTask `json:"task"`
	}
	if err := c.do(ctx, "/activity-tasks/poll", pollActivityTaskRequest{TaskList: taskList}, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

type respondActivityTaskCompletedRequest struct {
	TaskToken string `json:"taskToken"`
	Result    string `json:"result"`
}

func (c *HTTPClient) RespondActivityTaskCompleted(ctx context.Context, taskToken, result string) error {
	return c.do(ctx, "/activity-tasks/complete", respondActivityTaskCompletedRequest{TaskToken: taskToken, Result: result}, nil)
}

type respondActivityTaskFailedRequest struct {
	TaskToken string `json:"taskToken"`
	Reason    string `json:"reason"`
	Details   string `json:"details"`
}

func (c *HTTPClient) RespondActivityTaskFailed(ctx context.Context, taskToken, reason, details string) error {
	return c.do(ctx, "/activity-tasks/fail", respondActivityTaskFailedRequest{TaskToken: taskToken, Reason: reason, Details: details}, nil)
}

type respondActivityTaskCanceledRequest struct {
	TaskToken string `json:"taskToken"`
}

func (c *HTTPClient) RespondActivityTaskCanceled(ctx context.Context, taskToken string) error {
	return c.do(ctx, "/activity-tasks/cancel", respondActivityTaskCanceledRequest{TaskToken: taskToken}, nil)
}

type heartbeatRequest struct {
	TaskToken string `json:"taskToken"`
	Details   string `json:"details"`
}

func (c *HTTPClient) RecordActivityTaskHeartbeat(ctx context.Context, taskToken, details string) (bool, error) {
	var resp struct {
		CancelRequested bool `json:"cancelRequested"`
	}
	if err := c.do(ctx, "/activity-tasks/heartbeat", heartbeatRequest{TaskToken: taskToken, Details: details}, &resp); err != nil {
		return false, err
	}
	return resp.CancelRequested, nil
}

func (c *HTTPClient) StartWorkflowExecution(ctx context.Context, in StartWorkflowExecutionInput) (string, string, error) {
	var resp struct {
		WorkflowID string `json:"workflowId"`
		RunID      string `json:"runId"`
	}
	if err := c.do(ctx, "/workflow-executions/start", in, &resp); err != nil {
		return "", "", err
	}
	return resp.WorkflowID, resp.RunID, nil
}
