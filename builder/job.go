package builder

import "github.com/smilemakc/jobtree"

// JobOption configures the root Job node under construction.
type JobOption func(*jobtree.Node)

// WithJobParallel marks the job's direct children as running in parallel.
func WithJobParallel() JobOption {
	return func(n *jobtree.Node) { n.Parallel = true }
}

// JobBuilder builds a root Job node and its full subtree.
type JobBuilder struct {
	node *jobtree.Node
	err  error
}

// NewJob starts building a Job tree titled title.
func NewJob(title string, opts ...JobOption) *JobBuilder {
	n := jobtree.Job(title, false)
	for _, opt := range opts {
		opt(n)
	}
	return &JobBuilder{node: n}
}

// AddTask appends a Task child, configuring it via fn.
func (b *JobBuilder) AddTask(title string, fn func(*TaskBuilder), opts ...TaskOption) *JobBuilder {
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

// AddAction appends a leaf Action directly under the Job (an Action at
// Job depth still requires a Task ancestor per common usage, but the
// tree invariants in §3 only forbid Actions at the root itself, so this
// is structurally legal).
func (b *JobBuilder) AddAction(role string, opts ...ActionOption) *JobBuilder {
	if b.err != nil {
		return b
	}
	b.node.Children = append(b.node.Children, NewAction(role, opts...))
	return b
}

// Build validates and returns the finished tree.
func (b *JobBuilder) Build() (*jobtree.Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.node.Validate(); err != nil {
		return nil, err
	}
	return b.node, nil
}

// MustBuild is Build but panics on error, for tests and static setup.
func (b *JobBuilder) MustBuild() *jobtree.Node {
	n, err := b.Build()
	if err != nil {
		panic("builder: MustBuild: " + err.Error())
	}
	return n
}
