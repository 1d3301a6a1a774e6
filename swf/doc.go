// Package swf defines the external workflow-service collaborator named in
// spec.md §1 and §6: a durable, event-sourced service modeled after
// Amazon Simple Workflow. The Client interface is what the decider and
// worker depend on; the concrete RPC transport, retries, and backoff
// policy are deliberately kept out of the core's decision logic. Two
// implementations live here: Fake, for tests and the in-process
// scenarios exercised by package decider's tests, and HTTPClient, a
// minimal JSON-over-HTTP transport for cmd/jobtreectl and cmd/jobtreed
// to run against a real service.
package swf
