package worker

import "time"

// Config holds the activity-worker-side options of spec.md §6's
// configuration table.
type Config struct {
	HeartbeatInterval time.Duration
	HeartbeatMaxRetry int
	MaxReasonSize     int
	MaxDetailSize     int
	MaxResultSize     int
	// PollIdleBackoff is how long the farm loop sleeps after every poll
	// attempt, whether or not it returned work (spec.md §4.6's
	// "do-work; sleep 5s" loop).
	PollIdleBackoff time.Duration
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: 15 * time.Minute,
		HeartbeatMaxRetry: 2,
		MaxReasonSize:     256,
		MaxDetailSize:     32000,
		MaxResultSize:     32000,
		PollIdleBackoff:   5 * time.Second,
	}
}
