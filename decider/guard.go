package decider

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// guardCache compiles and caches the programs behind Task.When guards,
// mirroring the compiled-expression cache smilemakc-mbflow keeps for its
// conditional edges: a guard expression is authored once on a tree and
// then re-evaluated on every retry and every resumed decision task, so
// compiling it fresh per tick would dominate Decide's cost for deep or
// frequently-polled trees.
type guardCache struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

var guards = &guardCache{cache: make(map[string]*vm.Program)}

func (g *guardCache) compile(condition string) (*vm.Program, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if program, ok := g.cache[condition]; ok {
		return program, nil
	}
	program, err := expr.Compile(condition, expr.AsBool())
	if err != nil {
		return nil, err
	}
	g.cache[condition] = program
	return program, nil
}

// evalWhen reports whether a Task child's scheduling guard allows it to
// run, evaluated against output: the parent's last completed child
// result, decoded from JSON and exposed to the expression as the
// variable "output". An empty condition always schedules.
func evalWhen(condition string, output json.RawMessage) (bool, error) {
	if condition == "" {
		return true, nil
	}

	var decoded any
	if len(output) > 0 {
		if err := json.Unmarshal(output, &decoded); err != nil {
			return false, fmt.Errorf("decider: decode when guard output: %w", err)
		}
	}

	program, err := guards.compile(condition)
	if err != nil {
		return false, fmt.Errorf("decider: compile when guard %q: %w", condition, err)
	}

	result, err := expr.Run(program, map[string]any{"output": decoded})
	if err != nil {
		return false, fmt.Errorf("decider: evaluate when guard %q: %w", condition, err)
	}

	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("decider: when guard %q did not evaluate to a bool, got %T", condition, result)
	}
	return ok, nil
}
