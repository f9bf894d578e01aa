// Package compare runs the same prompt against several agents side by side.
package compare

import (
	"context"
	"sort"

	"neurones/internal/adapter"
	"neurones/internal/agent"
	"neurones/internal/logging"
)

// Runner is the executor surface the comparator depends on.
type Runner interface {
	RunParallel(ctx context.Context, tasks []agent.Task, opts agent.Options) []agent.Result
}

// Comparator fans one prompt out to a set of agents and collects their
// independent answers.
type Comparator struct {
	adapters map[string]adapter.Adapter
	runner   Runner
	log      *logging.Logger
}

// New creates a Comparator over the given adapter set.
func New(adapters map[string]adapter.Adapter, runner Runner, log *logging.Logger) *Comparator {
	if log == nil {
		log = logging.Discard()
	}
	return &Comparator{adapters: adapters, runner: runner, log: log}
}

// Compare sends prompt to every named agent that has an adapter and returns
// the results in request order. Names without an adapter are skipped with a
// warning; when nothing resolves the result is an empty slice, not an error.
// A nil or empty agents list means every configured agent.
func (c *Comparator) Compare(ctx context.Context, prompt string, agents []string) []agent.Result {
	if len(agents) == 0 {
		agents = make([]string, 0, len(c.adapters))
		for name := range c.adapters {
			agents = append(agents, name)
		}
		sort.Strings(agents)
	}

	var tasks []agent.Task
	for _, name := range agents {
		if _, ok := c.adapters[name]; !ok {
			c.log.Warn("skipping unavailable agent in comparison", "agent", name)
			continue
		}
		tasks = append(tasks, agent.Task{Agent: name, Prompt: prompt})
	}
	if len(tasks) == 0 {
		c.log.Warn("no agents available for comparison")
		return nil
	}

	c.log.Info("comparing agents", "count", len(tasks))
	return c.runner.RunParallel(ctx, tasks, agent.Options{})
}
