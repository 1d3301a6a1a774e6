// Package submit implements job submission and bootstrap (component G):
// validating a Job node, optionally externalizing its serialized tree
// through a save protocol, and starting the root workflow execution.
package submit
