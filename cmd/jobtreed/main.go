// Command jobtreed is the unattended fleet daemon: it runs the decider
// loop and an activity worker farm continuously, optionally mirroring
// decided history into Postgres and serving it through the live
// monitor. It is cmd/jobtreectl's "worker start" path, packaged to run
// without a terminal (systemd unit, container entrypoint).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/smilemakc/jobtree/cache"
	"github.com/smilemakc/jobtree/config"
	"github.com/smilemakc/jobtree/decider"
	"github.com/smilemakc/jobtree/inputproto"
	"github.com/smilemakc/jobtree/internal/daemon"
	"github.com/smilemakc/jobtree/logging"
	"github.com/smilemakc/jobtree/monitor"
	"github.com/smilemakc/jobtree/store"
	"github.com/smilemakc/jobtree/swf"
	"github.com/smilemakc/jobtree/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobtreed: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetDefault(logger)

	endpoint := getEnv("JOBTREE_ENDPOINT", "http://localhost:8080")
	apiKey := getEnv("JOBTREE_API_KEY", "")
	var client swf.Client = swf.NewHTTPClient(endpoint, swf.HTTPClientConfig{APIKey: apiKey})

	if redisURL := os.Getenv("JOBTREE_REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jobtreed: invalid JOBTREE_REDIS_URL: %v\n", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		client = cache.NewCancelAwareClient(client, cache.New(rdb))
		logger.Info("jobtreed: cancellation cache enabled")
	}

	var repo *store.EventRepository
	if dsn := os.Getenv("JOBTREE_DATABASE_URL"); dsn != "" {
		storeCfg := store.DefaultConfig()
		storeCfg.DSN = dsn
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := store.Open(ctx, storeCfg)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "jobtreed: connecting history mirror: %v\n", err)
			os.Exit(1)
		}
		repo = store.NewEventRepository(db)
		logger.Info("jobtreed: history mirror enabled")
	}

	var mon *monitor.Server
	if addr := os.Getenv("JOBTREE_MONITOR_ADDR"); addr != "" {
		monCfg := monitor.DefaultConfig()
		monCfg.Addr = addr
		monCfg.JWTSecret = os.Getenv("JOBTREE_MONITOR_JWT_SECRET")
		mon = monitor.New(monCfg, repo, logger)
		go func() {
			if err := mon.Run(); err != nil {
				logger.Error("jobtreed: monitor server exited", "error", err)
			}
		}()
	}

	if repo != nil {
		mc := &mirroringClient{Client: client, repo: repo, logger: logger}
		if mon != nil {
			mc.publisher = mon
		}
		client = mc
	}

	registry := worker.NewRegistry()
	if err := registry.Register("noop", func(_ context.Context, params map[string]any) (any, error) {
		return params, nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "jobtreed: %v\n", err)
		os.Exit(1)
	}
	farm := worker.NewFarm(client, registry, inputproto.NewRegistry())
	farm.Config = cfg.WorkerConfig()

	reaper := newReaperCron(client, cfg, logger)
	reaper.Start()

	ctx, cancel := daemon.WithSignalCancel(context.Background())
	defer cancel()

	err = daemon.Run(ctx, daemon.Options{
		Client:           client,
		DecisionTaskList: cfg.DecisionTaskList,
		DeciderConfig:    cfg.DeciderConfig(),
		Loader:           inputproto.NewRegistry(),
		Farm:             farm,
		FarmSpec:         map[string]int{"noop": 4},
		Logger:           logger,
	})

	<-reaper.Stop().Done()

	if mon != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		_ = mon.Shutdown(shutdownCtx)
		shutdownCancel()
	}
	if err != nil {
		logger.Error("jobtreed: exited with error", "error", err)
		os.Exit(1)
	}
}

// mirroringClient decorates a swf.Client the same way
// cache.CancelAwareClient decorates heartbeat calls: PollForDecisionTask
// already receives the full event history for replay, so this is the
// one natural interception point to append it to the durable mirror and
// forward it to the live monitor feed, without decider or worker having
// to know a mirror exists.
type mirroringClient struct {
	swf.Client
	repo      *store.EventRepository
	publisher monitor.Publisher
	logger    *logging.Logger
}

func (m *mirroringClient) PollForDecisionTask(ctx context.Context, taskList string) (*swf.DecisionTask, error) {
	task, err := m.Client.PollForDecisionTask(ctx, taskList)
	if err != nil || task == nil {
		return task, err
	}

	fresh := task.Events
	if latest, latestErr := m.repo.LatestEventID(ctx, task.WorkflowExecution.WorkflowID); latestErr == nil {
		fresh = nil
		for _, ev := range task.Events {
			if ev.EventID > latest {
				fresh = append(fresh, ev)
			}
		}
	}

	if appendErr := m.repo.AppendBatch(ctx, task.WorkflowExecution.WorkflowID, task.WorkflowExecution.RunID, fresh); appendErr != nil {
		m.logger.Error("jobtreed: mirroring history failed", "workflow_id", task.WorkflowExecution.WorkflowID, "error", appendErr)
	}

	if m.publisher != nil {
		for _, ev := range fresh {
			m.publisher.Publish(monitor.ExecutionEvent{
				WorkflowID: task.WorkflowExecution.WorkflowID,
				RunID:      task.WorkflowExecution.RunID,
				EventType:  ev.EventType,
				Timestamp:  ev.EventTimestamp,
				Detail:     ev.Attributes,
			})
		}
	}

	return task, nil
}

// newReaperCron builds a supervisory sweep distinct from daemon.Run's own
// continuous long-poll: every minute it fires one extra decider.Run tick
// against the decision task list, so a decision task stuck behind a long
// or hung poll cycle still gets a chance to drain on a fixed schedule.
func newReaperCron(client swf.Client, cfg *config.Config, logger *logging.Logger) *cron.Cron {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc("0 * * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := decider.Run(ctx, client, cfg.DecisionTaskList, cfg.DeciderConfig(), inputproto.NewRegistry()); err != nil {
			logger.Warn("jobtreed: reaper sweep failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("jobtreed: reaper schedule invalid", "error", err)
	}
	return c
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
