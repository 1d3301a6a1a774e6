package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/smilemakc/jobtree/decider"
	"github.com/smilemakc/jobtree/submit"
	"github.com/smilemakc/jobtree/swf"
	"github.com/smilemakc/jobtree/worker"
)

// Config is the ambient, environment-driven configuration of spec.md
// §6's table, grouped by the component each field feeds.
type Config struct {
	Domain string `validate:"required"`
	Region string

	DecisionTaskList string `validate:"required"`
	ActivityTaskList string `validate:"required"`

	WorkflowExecutionTimeout  time.Duration `validate:"gt=0"`
	DecisionTaskTimeout       time.Duration `validate:"gt=0"`
	ActivityTaskTimeout       time.Duration `validate:"gt=0"`
	ActivityHeartbeatTimeout  time.Duration `validate:"gt=0"`
	ActivityHeartbeatInterval time.Duration `validate:"gt=0"`
	ActivityHeartbeatMaxRetry int           `validate:"gte=0"`

	ActivityMaxRetry int `validate:"gte=0"`
	WorkflowMaxRetry int `validate:"gte=0"`

	WorkflowChildPolicy string `validate:"oneof=TERMINATE REQUEST_CANCEL ABANDON"`

	MaxReasonSize int `validate:"gt=0"`
	MaxDetailSize int `validate:"gt=0"`
	MaxResultSize int `validate:"gt=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`
}

// Default returns the spec.md §6 defaults.
func Default() Config {
	return Config{
		Domain:                    "jobtree",
		DecisionTaskList:          "default",
		ActivityTaskList:          "default",
		WorkflowExecutionTimeout:  7 * 24 * time.Hour,
		DecisionTaskTimeout:       60 * time.Second,
		ActivityTaskTimeout:       7 * 24 * time.Hour,
		ActivityHeartbeatTimeout:  time.Hour,
		ActivityHeartbeatInterval: 15 * time.Minute,
		ActivityHeartbeatMaxRetry: 2,
		ActivityMaxRetry:          2,
		WorkflowMaxRetry:          0,
		WorkflowChildPolicy:       string(swf.ChildPolicyTerminate),
		MaxReasonSize:             256,
		MaxDetailSize:             32000,
		MaxResultSize:             32000,
		LogLevel:                  "info",
		LogFormat:                 "json",
	}
}

// Load reads JOBTREE_-prefixed environment variables over Default(),
// optionally seeded from a .env file in the working directory (a
// missing .env is not an error — godotenv.Load's own behavior), and
// validates the result. Like the teacher's own Load(), a variable that
// fails to parse falls back to its default rather than failing Load
// outright; only structural validation failures (Validate) return an
// error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	cfg.Domain = getEnv("JOBTREE_DOMAIN", cfg.Domain)
	cfg.Region = getEnv("JOBTREE_REGION", cfg.Region)
	cfg.DecisionTaskList = getEnv("JOBTREE_DECISION_TASK_LIST", cfg.DecisionTaskList)
	cfg.ActivityTaskList = getEnv("JOBTREE_ACTIVITY_TASK_LIST", cfg.ActivityTaskList)

	cfg.WorkflowExecutionTimeout = getEnvDuration("JOBTREE_WORKFLOW_EXECUTION_TIMEOUT", cfg.WorkflowExecutionTimeout)
	cfg.DecisionTaskTimeout = getEnvDuration("JOBTREE_DECISION_TASK_TIMEOUT", cfg.DecisionTaskTimeout)
	cfg.ActivityTaskTimeout = getEnvDuration("JOBTREE_ACTIVITY_TASK_TIMEOUT", cfg.ActivityTaskTimeout)
	cfg.ActivityHeartbeatTimeout = getEnvDuration("JOBTREE_ACTIVITY_HEARTBEAT_TIMEOUT", cfg.ActivityHeartbeatTimeout)
	cfg.ActivityHeartbeatInterval = getEnvDuration("JOBTREE_ACTIVITY_HEARTBEAT_INTERVAL", cfg.ActivityHeartbeatInterval)
	cfg.ActivityHeartbeatMaxRetry = getEnvInt("JOBTREE_ACTIVITY_HEARTBEAT_MAX_RETRY", cfg.ActivityHeartbeatMaxRetry)

	cfg.ActivityMaxRetry = getEnvInt("JOBTREE_ACTIVITY_MAX_RETRY", cfg.ActivityMaxRetry)
	cfg.WorkflowMaxRetry = getEnvInt("JOBTREE_WORKFLOW_MAX_RETRY", cfg.WorkflowMaxRetry)

	cfg.WorkflowChildPolicy = getEnv("JOBTREE_WORKFLOW_CHILD_POLICY", cfg.WorkflowChildPolicy)

	cfg.MaxReasonSize = getEnvInt("JOBTREE_MAX_REASON_SIZE", cfg.MaxReasonSize)
	cfg.MaxDetailSize = getEnvInt("JOBTREE_MAX_DETAIL_SIZE", cfg.MaxDetailSize)
	cfg.MaxResultSize = getEnvInt("JOBTREE_MAX_RESULT_SIZE", cfg.MaxResultSize)

	cfg.LogLevel = getEnv("JOBTREE_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("JOBTREE_LOG_FORMAT", cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the struct tags above via go-playground/validator,
// the same validation library the teacher's executor configs use.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// DeciderConfig projects c onto the fields decider.Decide needs.
func (c *Config) DeciderConfig() decider.Config {
	return decider.Config{
		ActivityMaxRetry:               c.ActivityMaxRetry,
		WorkflowMaxRetry:               c.WorkflowMaxRetry,
		DefaultActivityTaskList:        c.ActivityTaskList,
		DefaultDecisionTaskList:        c.DecisionTaskList,
		ActivityHeartbeatTimeout:       c.ActivityHeartbeatTimeout,
		ActivityScheduleToCloseTimeout: c.ActivityTaskTimeout,
		ActivityScheduleToStartTimeout: c.ActivityTaskTimeout,
		ActivityStartToCloseTimeout:    c.ActivityTaskTimeout,
		WorkflowExecutionTimeout:       c.WorkflowExecutionTimeout,
		DecisionTaskTimeout:            c.DecisionTaskTimeout,
		ChildPolicy:                    swf.ChildPolicy(c.WorkflowChildPolicy),
		MaxReasonSize:                  c.MaxReasonSize,
		MaxDetailSize:                  c.MaxDetailSize,
		MaxResultSize:                  c.MaxResultSize,
	}
}

// WorkerConfig projects c onto the fields worker.Worker needs.
func (c *Config) WorkerConfig() worker.Config {
	return worker.Config{
		HeartbeatInterval: c.ActivityHeartbeatInterval,
		HeartbeatMaxRetry: c.ActivityHeartbeatMaxRetry,
		MaxReasonSize:     c.MaxReasonSize,
		MaxDetailSize:     c.MaxDetailSize,
		MaxResultSize:     c.MaxResultSize,
		PollIdleBackoff:   5 * time.Second,
	}
}

// SubmitConfig projects c onto the fields submit.Submit needs.
func (c *Config) SubmitConfig() submit.Config {
	return submit.Config{
		DefaultDecisionTaskList:  c.DecisionTaskList,
		WorkflowExecutionTimeout: c.WorkflowExecutionTimeout,
		DecisionTaskTimeout:      c.DecisionTaskTimeout,
		ChildPolicy:              swf.ChildPolicy(c.WorkflowChildPolicy),
	}
}
