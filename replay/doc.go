// Package replay implements component C of SPEC_FULL.md: the history
// parser. Given a decision task's full event history it reconstructs the
// per-tick Context the decider needs — the original job input, the tag
// list, the inherited priority, the aggregated steps, and ID generators
// for the next schedulable unit — deterministically, so that two
// independent parses of the same history produce identical IDs.
package replay
