// Package builder constructs immutable jobtree.Node trees.
//
// Two construction styles are offered, mirroring the two options the
// source system's scoped-entry/scoped-exit tree builder can be
// translated to in Go (see SPEC_FULL.md §9):
//
//   - JobBuilder / TaskBuilder: explicit AddTask/AddAction calls
//     (builder.NewJob("J").AddTask("T", func(t *TaskBuilder) {...})).
//   - Scope: a scoped-closure builder whose "current parent" is the
//     enclosing closure's receiver rather than a package-level stack —
//     so nesting is expressed by Go's own call stack and there is no
//     global mutable state to reset.
//
// Either way the result is a plain *jobtree.Node, validated on Build().
package builder
