package decider

import (
	"time"

	"github.com/smilemakc/jobtree/swf"
)

// Config carries the tunables of spec.md §6's configuration table that
// the decider needs to build decisions and enforce response limits.
type Config struct {
	ActivityMaxRetry int
	WorkflowMaxRetry int

	DefaultActivityTaskList string
	DefaultDecisionTaskList string

	ActivityHeartbeatTimeout       time.Duration
	ActivityScheduleToCloseTimeout time.Duration
	ActivityScheduleToStartTimeout time.Duration
	ActivityStartToCloseTimeout    time.Duration

	WorkflowExecutionTimeout time.Duration
	DecisionTaskTimeout      time.Duration
	ChildPolicy              swf.ChildPolicy

	MaxReasonSize int
	MaxDetailSize int
	MaxResultSize int
}

// DefaultConfig returns the spec.md §6 default values.
func DefaultConfig() Config {
	return Config{
		ActivityMaxRetry:               2,
		WorkflowMaxRetry:               0,
		DefaultActivityTaskList:        "default",
		DefaultDecisionTaskList:        "default",
		ActivityHeartbeatTimeout:       time.Hour,
		ActivityScheduleToCloseTimeout: 7 * 24 * time.Hour,
		ActivityScheduleToStartTimeout: 7 * 24 * time.Hour,
		ActivityStartToCloseTimeout:    7 * 24 * time.Hour,
		WorkflowExecutionTimeout:       7 * 24 * time.Hour,
		DecisionTaskTimeout:            60 * time.Second,
		ChildPolicy:                    swf.ChildPolicyTerminate,
		MaxReasonSize:                  256,
		MaxDetailSize:                  32000,
		MaxResultSize:                  32000,
	}
}
