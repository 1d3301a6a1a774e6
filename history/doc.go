// Package history implements components A and B of SPEC_FULL.md's
// module map: a normalized view over raw swf.Event records, and the
// aggregator that groups a decision task's event stream into logical
// Steps (one scheduled activity or child workflow, plus its outcome
// events and retries).
//
// Per SPEC_FULL.md §9 ("Dynamic attribute access on events"), this
// package does not perform a generic recursive field search. Each event
// type's known fields are resolved by name against the event's flat
// attribute bag or, for workflow-execution-nested fields, one level
// deeper — and anything else is surfaced through AttributeMissing rather
// than silently defaulting.
package history
