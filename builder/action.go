package builder

import "github.com/smilemakc/jobtree"

// ActionOption configures an Action node under construction.
type ActionOption func(*jobtree.Node)

// WithParam sets a single entry in the Action's params map. This is the
// escape hatch for arbitrary user payload (mirrors the teacher's
// WithConfigValue on pkg/builder.NodeBuilder).
func WithParam(key string, value any) ActionOption {
	return func(n *jobtree.Node) {
		n.Params[key] = value
	}
}

// WithParams merges an entire params map in one call.
func WithParams(params map[string]any) ActionOption {
	return func(n *jobtree.Node) {
		for k, v := range params {
			n.Params[k] = v
		}
	}
}

// OnError marks this Action as an error handler: when_error = true.
func OnError() ActionOption {
	return func(n *jobtree.Node) {
		n.WhenError = true
	}
}

// NewAction builds a standalone Action node. Most callers reach this
// through JobBuilder.AddAction / TaskBuilder.AddAction / Scope.Action
// instead of calling it directly.
func NewAction(role string, opts ...ActionOption) *jobtree.Node {
	n := jobtree.Action(role, false, map[string]any{})
	for _, opt := range opts {
		opt(n)
	}
	return n
}
