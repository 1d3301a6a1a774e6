package decider

import "github.com/smilemakc/jobtree"

// Weight approximates the longest serial chain of scheduling steps
// remaining under node before its rightmost descendant can start
// (spec.md §4.5). An Action weighs 1. A parallel Task weighs the
// largest child weight (the slowest branch gates the others). A serial
// Task weighs the sum of its children's weights, since each must
// schedule before the next.
//
// Error-handler children never gate normal scheduling and are excluded.
func Weight(node *jobtree.Node) int {
	if node.IsLeaf() {
		return 1
	}
	children := node.NormalChildren()
	if node.Parallel {
		max := 0
		for _, c := range children {
			if w := Weight(c); w > max {
				max = w
			}
		}
		return max
	}
	sum := 0
	for _, c := range children {
		sum += Weight(c)
	}
	return sum
}

// ChildPriority computes the task priority to assign the child at
// index i of parent, given parent's own priority (spec.md §4.5). A
// parallel parent, or the first child of a serial parent, inherits
// priority+1. A later serial child's priority is bumped further by the
// combined weight of every sibling scheduled before it, so that later
// serial work outranks unrelated concurrent branches once it is finally
// scheduled.
func ChildPriority(parent *jobtree.Node, parentPriority, i int) int {
	if parent.Parallel || i == 0 {
		return parentPriority + 1
	}
	children := parent.NormalChildren()
	sum := 0
	for j := 0; j < i && j < len(children); j++ {
		sum += Weight(children[j])
	}
	return parentPriority + 1 + sum
}
