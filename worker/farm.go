package worker

import (
	"context"
	"sync"
	"time"

	"github.com/smilemakc/jobtree/logging"
	"github.com/smilemakc/jobtree/replay"
	"github.com/smilemakc/jobtree/swf"
)

// Farm runs a fleet of Workers, one task list per registered role, with
// the worker count spec.md §4.6's `start(farm)` takes as a role-name ->
// count mapping. Each role's task list is the role name itself (spec.md
// §6: "role(name) -> register(fn): names the activity task-list a role
// binds to").
type Farm struct {
	Client   swf.Client
	Registry *Registry
	Loader   replay.InputLoader
	Config   Config
}

// NewFarm returns a Farm with DefaultConfig.
func NewFarm(client swf.Client, registry *Registry, loader replay.InputLoader) *Farm {
	return &Farm{Client: client, Registry: registry, Loader: loader, Config: DefaultConfig()}
}

// Start spawns count goroutines per entry of farm (role name -> worker
// count, default 1 for any registered role omitted from farm), each
// running an infinite "do-work; sleep PollIdleBackoff" loop, and blocks
// until ctx is canceled. Callers wire SIGTERM/SIGHUP/SIGINT into ctx's
// cancellation (see cmd/jobtreed).
func (f *Farm) Start(ctx context.Context, farm map[string]int) {
	counts := make(map[string]int, len(f.Registry.Names()))
	for _, role := range f.Registry.Names() {
		counts[role] = 1
	}
	for role, n := range farm {
		counts[role] = n
	}

	var wg sync.WaitGroup
	for role, count := range counts {
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			wg.Add(1)
			go func(role string, index int) {
				defer wg.Done()
				f.loop(ctx, role, index)
			}(role, i)
		}
	}
	wg.Wait()
}

func (f *Farm) loop(ctx context.Context, role string, index int) {
	w := New(f.Client, role, f.Registry, f.Loader)
	w.Config = f.Config
	w.Logger = logging.Default().With("component", "worker", "role", role, "worker_index", index)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := w.RunOnce(ctx); err != nil {
			w.Logger.Error("activity worker iteration failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(f.Config.PollIdleBackoff):
		}
	}
}
