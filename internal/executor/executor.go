// Package executor runs agent CLI commands as subprocesses. It enforces
// per-adapter timeouts, retries rate-limited invocations with backoff, and
// fans out batches of invocations concurrently while isolating per-task
// failures. Failures never escape as errors; every invocation produces
// exactly one Result.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"neurones/internal/adapter"
	"neurones/internal/agent"
	"neurones/internal/config"
	"neurones/internal/errors"
	"neurones/internal/logging"
)

// Executor runs agent commands with rate-limit retry and parallel dispatch.
// The adapter mapping is read-only for the lifetime of a run; retry state
// is local to each RunSingle call.
type Executor struct {
	adapters map[string]adapter.Adapter
	log      *logging.Logger

	maxRetries      int
	retryBaseDelay  time.Duration
	retryMaxDelay   time.Duration
	parallelTimeout time.Duration
}

// New creates an Executor over the given adapters. A nil config applies the
// default retry policy.
func New(adapters map[string]adapter.Adapter, cfg *config.Config, log *logging.Logger) *Executor {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Executor{
		adapters:        adapters,
		log:             log,
		maxRetries:      cfg.MaxRetries,
		retryBaseDelay:  secondsToDuration(cfg.RetryBaseDelay),
		retryMaxDelay:   secondsToDuration(cfg.RetryMaxDelay),
		parallelTimeout: time.Duration(cfg.ParallelTimeout) * time.Second,
	}
}

// RunSingle runs one agent invocation, retrying on detected rate limiting
// with backoff. The returned result's Retries field counts completed retry
// attempts and Duration covers the whole sequence including sleeps. An
// unknown agent name returns an immediate failed result without spawning
// anything.
func (e *Executor) RunSingle(ctx context.Context, agentName, prompt string, opts agent.Options) agent.Result {
	ad, ok := e.adapters[agentName]
	if !ok {
		return agent.ErrorResult(agentName, fmt.Errorf("%w: %s", errors.ErrUnknownAgent, agentName))
	}

	cmd := ad.BuildCommand(prompt, opts)
	e.log.Info("running agent", "agent", agentName, "args", len(cmd))

	start := time.Now()
	var lastResult agent.Result

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := e.retryDelay(attempt, lastResult)
			e.log.Warn("agent rate limited, backing off",
				"agent", agentName, "attempt", attempt, "max_retries", e.maxRetries, "delay", delay)
			select {
			case <-ctx.Done():
				lastResult.Retries = attempt - 1
				lastResult.Duration = time.Since(start)
				return lastResult
			case <-time.After(delay):
			}
		}

		result := e.executeOnce(ctx, ad, cmd)

		if !result.RateLimited {
			result.Retries = attempt
			result.Duration = time.Since(start)
			if attempt > 0 {
				e.log.Info("agent recovered after retries",
					"agent", agentName, "retries", attempt, "duration", result.Duration)
			}
			return result
		}

		lastResult = result
	}

	lastResult.Retries = e.maxRetries
	lastResult.Duration = time.Since(start)
	e.log.Error("agent still rate limited after retries",
		"agent", agentName, "retries", e.maxRetries, "duration", lastResult.Duration)
	return lastResult
}

// retryDelay computes the sleep before retry attempt N: the server's
// retry-after hint from the previous attempt's output when present, else
// exponential backoff base*2^(N-1), both capped at the configured max.
func (e *Executor) retryDelay(attempt int, last agent.Result) time.Duration {
	if hint, ok := adapter.ExtractRetryAfter(last.Output, last.Stderr); ok {
		return min(secondsToDuration(hint), e.retryMaxDelay)
	}
	delay := e.retryBaseDelay * (1 << (attempt - 1))
	return min(delay, e.retryMaxDelay)
}

// executeOnce spawns a single subprocess invocation with the adapter's
// timeout and no retry logic. Timeouts terminate the process and produce a
// failed result with the canonical timed-out wording; spawn errors are
// captured the same way.
func (e *Executor) executeOnce(ctx context.Context, ad adapter.Adapter, argv []string) agent.Result {
	attemptCtx, cancel := context.WithTimeout(ctx, ad.Timeout())
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(attemptCtx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if attemptCtx.Err() == context.DeadlineExceeded {
		e.log.Warn("agent timed out", "agent", ad.Name(), "timeout", ad.Timeout())
		return agent.Result{
			Agent:    ad.Name(),
			Success:  false,
			ExitCode: -1,
			Stderr:   fmt.Sprintf("agent timed out after %ds", int(ad.Timeout().Seconds())),
			Duration: duration,
		}
	}

	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			// Spawn-level failure: no process output to parse.
			e.log.Error("agent spawn failed", "agent", ad.Name(), "error", err)
			result := agent.ErrorResult(ad.Name(), err)
			result.Duration = duration
			return result
		}
	}

	result := ad.ParseOutput(stdout.Bytes(), stderr.Bytes(), cmd.ProcessState.ExitCode())
	result.Duration = duration
	e.log.Info("agent completed",
		"agent", ad.Name(), "exit", result.ExitCode,
		"output_chars", len(result.Output), "rate_limited", result.RateLimited,
		"duration", duration)
	return result
}

// RunParallel launches every task concurrently and collects one result per
// task in input order. The whole batch shares the configured parallel
// timeout budget on top of each task's own per-attempt timeout. A panic
// inside a task is converted to a failed result for that task's agent;
// siblings always run to completion.
func (e *Executor) RunParallel(ctx context.Context, tasks []agent.Task, opts agent.Options) []agent.Result {
	if e.parallelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.parallelTimeout)
		defer cancel()
	}

	results := make([]agent.Result, len(tasks))
	var wg conc.WaitGroup

	for i, task := range tasks {
		wg.Go(func() {
			recovered := panics.Try(func() {
				results[i] = e.RunSingle(ctx, task.Agent, task.Prompt, opts)
			})
			if recovered != nil {
				e.log.Error("task panicked", "agent", task.Agent, "panic", recovered.Value)
				results[i] = agent.ErrorResult(task.Agent, recovered.AsError())
			}
		})
	}

	wg.Wait()
	return results
}

// secondsToDuration converts fractional seconds to a time.Duration.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
