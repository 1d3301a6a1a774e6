// Package jobtree defines the Job/Task/Action tree: the user-facing data
// model submitted to the workflow service and replayed, tick by tick, by
// the decider in package decider.
//
// A tree is a plain, immutable value once built (see package builder for
// construction). It is not itself a schedulable unit — the decider and
// history parser derive all scheduling state from a workflow-service
// history on every decision tick; nothing here is mutated at runtime.
package jobtree
