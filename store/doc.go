// Package store provides an optional, read-side mirror of workflow
// history events in PostgreSQL for package monitor and for tests. It is
// never consulted by the decider, which always rebuilds state from the
// workflow service's own history (spec.md §1's "no persistence of its
// own").
package store
