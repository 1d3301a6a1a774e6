// Package decider implements component D of SPEC_FULL.md: the decision
// engine. Given a replay.Context for one decision task it walks the
// workflow's immediate children, emits at most one new scheduling
// decision per tick for a serial parent (parallel parents may batch one
// decision per branch on first scheduling), handles retries, runs the
// error-handler pass on failure, and reports exactly one of
// Suspend/Complete/Fail. Package decider also implements component E,
// the priority calculator, in priority.go.
package decider
