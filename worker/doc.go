// Package worker implements the activity worker (component F): it
// long-polls activity tasks, dispatches each to a registered role
// function in an isolated goroutine standing in for the subprocess
// sandbox named out of scope, streams heartbeats, and reports the
// outcome back to the workflow service.
package worker
