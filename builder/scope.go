package builder

import "github.com/smilemakc/jobtree"

// Scope is the scoped-builder alternative named in SPEC_FULL.md §9: the
// "current parent" that Action/Task append to is the Scope value itself,
// which only exists for the lifetime of the enclosing closure. There is
// no package-level stack to push, pop, or leak across builds — Go's call
// stack already gives us the scoping the source system achieves with a
// process-wide stack of "current parent" entries.
type Scope struct {
	node *jobtree.Node
}

// NewTree builds a root Job and hands the caller a Scope to populate it.
func NewTree(title string, parallel bool, fn func(s *Scope)) (*jobtree.Node, error) {
	root := jobtree.Job(title, parallel)
	if fn != nil {
		fn(&Scope{node: root})
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

// Task appends a Task child and opens a nested Scope for its children.
func (s *Scope) Task(title string, parallel bool, fn func(s *Scope)) {
	child := jobtree.Task(title, parallel)
	if fn != nil {
		fn(&Scope{node: child})
	}
	s.node.Children = append(s.node.Children, child)
}

// TaskWhen is Task with a scheduling guard expression attached: the
// decider evaluates when against output, the parent's last completed
// result, before scheduling this child, skipping it with a nil result
// when the guard is false.
func (s *Scope) TaskWhen(title string, parallel bool, when string, fn func(s *Scope)) {
	child := jobtree.Task(title, parallel)
	child.When = when
	if fn != nil {
		fn(&Scope{node: child})
	}
	s.node.Children = append(s.node.Children, child)
}

// Action appends a leaf Action child.
func (s *Scope) Action(role string, opts ...ActionOption) {
	s.node.Children = append(s.node.Children, NewAction(role, opts...))
}
