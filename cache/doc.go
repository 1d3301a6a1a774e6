// Package cache provides two Redis-backed helpers that sit alongside
// the core decider/worker loop without the decider ever depending on
// them: out-of-band cancellation requests for a running activity
// (surfaced to the worker's heartbeat loop via a decorated swf.Client),
// and a short-TTL memo of computed child priorities keyed by workflow.
package cache
