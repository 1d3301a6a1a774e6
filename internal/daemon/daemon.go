// Package daemon bootstraps the decider tick loop and an activity
// worker farm as one supervised process, shared by cmd/jobtreectl's
// "worker start" and cmd/jobtreed. It holds no domain logic of its own.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/smilemakc/jobtree/decider"
	"github.com/smilemakc/jobtree/logging"
	"github.com/smilemakc/jobtree/replay"
	"github.com/smilemakc/jobtree/swf"
	"github.com/smilemakc/jobtree/worker"
)

// Options configures one Run invocation.
type Options struct {
	Client             swf.Client
	DecisionTaskList   string
	DeciderConfig      decider.Config
	DeciderIdleBackoff time.Duration
	Loader             replay.InputLoader
	Farm               *worker.Farm
	FarmSpec           map[string]int
	Logger             *logging.Logger
}

// WithSignalCancel derives a context that is canceled on SIGINT,
// SIGTERM, or SIGHUP, following the teacher's graceful-shutdown idiom
// (cmd/server/main.go's signal.Notify) extended with SIGHUP, which is
// treated as a stop request like the other two; there is no reload path.
func WithSignalCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// Run starts the decider tick loop (if a decision task list is
// configured) and the worker farm (if one is provided) and blocks until
// ctx is canceled. decider.Run processes one decision task per call, so
// this re-invokes it continuously, waiting the backoff after every call
// the same way worker.Farm waits after every activity poll.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	backoff := opts.DeciderIdleBackoff
	if backoff <= 0 {
		backoff = 5 * time.Second
	}

	var wg sync.WaitGroup

	if opts.DecisionTaskList != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("daemon: decider loop starting", "task_list", opts.DecisionTaskList)
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := decider.Run(ctx, opts.Client, opts.DecisionTaskList, opts.DeciderConfig, opts.Loader); err != nil {
					log.Error("daemon: decider tick failed", "error", err)
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
			}
		}()
	}

	if opts.Farm != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("daemon: worker farm starting", "roles", opts.Farm.Registry.Names())
			opts.Farm.Start(ctx, opts.FarmSpec)
		}()
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}
