// Package monitor serves a read-only view of running and completed
// workflow executions: a point-in-time status query backed by package
// store's event mirror, and a live WebSocket feed of decision-tick
// activity pushed in by the decider/worker side of the process. It
// never drives decisions — it only observes what the decider already
// decided.
package monitor
