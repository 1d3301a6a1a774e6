// Package config loads ambient configuration for the jobtree binaries
// from the environment (JOBTREE_-prefixed variables, optionally seeded
// from a .env file), validates it, and exposes the per-component
// defaults used across decider, worker, and submit.
package config
