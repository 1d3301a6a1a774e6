package builder

import "github.com/smilemakc/jobtree"

// TaskOption configures a Task node under construction.
type TaskOption func(*jobtree.Node)

// WithParallel marks the task's children as running in parallel.
func WithParallel() TaskOption {
	return func(n *jobtree.Node) { n.Parallel = true }
}

// WithWhen sets the task's optional scheduling guard expression. The
// decider evaluates it against output, the parent's last completed
// result, before scheduling this child; a false guard completes the
// child synthetically with a nil result instead of emitting a
// decision.
func WithWhen(expr string) TaskOption {
	return func(n *jobtree.Node) { n.When = expr }
}

// TaskBuilder accumulates the children of a single Task (or Job) node.
type TaskBuilder struct {
	node *jobtree.Node
	err  error
}

func newChildBuilder(n *jobtree.Node) *TaskBuilder {
	return &TaskBuilder{node: n}
}

// AddTask appends a nested Task child, configuring it via fn.
func (b *TaskBuilder) AddTask(title string, fn func(*TaskBuilder), opts ...TaskOption) *TaskBuilder {
	if b.err != nil {
		return b
	}
	child := jobtree.Task(title, false)
	for _, opt := range opts {
		opt(child)
	}
	if fn != nil {
		cb := newChildBuilder(child)
		fn(cb)
		if cb.err != nil {
			b.err = cb.err
			return b
		}
	}
	b.node.Children = append(b.node.Children, child)
	return b
}

// AddAction appends a leaf Action child.
func (b *TaskBuilder) AddAction(role string, opts ...ActionOption) *TaskBuilder {
	if b.err != nil {
		return b
	}
	b.node.Children = append(b.node.Children, NewAction(role, opts...))
	return b
}

// Err returns the first error encountered while building, if any.
func (b *TaskBuilder) Err() error { return b.err }
