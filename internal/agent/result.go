// Package agent defines the value types shared by the adapter, executor,
// and orchestrator layers: the result of a single agent invocation, the
// task tuples dispatched in parallel, and per-invocation option overrides.
package agent

import (
	"fmt"
	"strings"
	"time"
)

// truncateLimit is the maximum output length returned by TruncatedOutput.
const truncateLimit = 500

// Result is the outcome of a single agent invocation.
//
// Success is true only when the process exited zero and no rate limiting
// was detected in its output. Retries counts completed retry attempts; it
// is 0 when the first attempt settled the invocation. Duration covers the
// full retry sequence including backoff sleeps.
type Result struct {
	Agent       string
	Output      string
	Stderr      string
	Success     bool
	ExitCode    int
	Duration    time.Duration
	RateLimited bool
	Retries     int
	Metadata    map[string]string
}

// ErrorResult creates a failed Result from an error, for invocations that
// never produced process output (unknown agent, spawn failure, panic).
func ErrorResult(agentName string, err error) Result {
	return Result{
		Agent:    agentName,
		Success:  false,
		ExitCode: -1,
		Stderr:   err.Error(),
	}
}

// StatusLabel derives the human-readable status for this result.
//
// Rate limiting takes precedence over generic failure; a timeout is
// recognized by the canonical "timed out" wording in the error text.
func (r Result) StatusLabel() string {
	if r.Success {
		if r.Retries > 0 {
			return fmt.Sprintf("SUCCESS (retried %dx)", r.Retries)
		}
		return "SUCCESS"
	}
	if r.RateLimited {
		return "RATE_LIMITED"
	}
	stderr := strings.ToLower(r.Stderr)
	if strings.Contains(stderr, "timed out") || strings.Contains(stderr, "timeout") {
		return "TIMEOUT"
	}
	return "FAILED"
}

// TruncatedOutput returns the first 500 characters of output for summaries.
// Truncation counts runes, never splitting a multi-byte character.
func (r Result) TruncatedOutput() string {
	runes := []rune(r.Output)
	if len(runes) <= truncateLimit {
		return r.Output
	}
	return string(runes[:truncateLimit]) + "..."
}

// Task pairs an agent name with the prompt it should run.
type Task struct {
	Agent  string
	Prompt string
}

// Options carries call-time overrides for a single invocation. Zero values
// mean "use the adapter's configured default, or omit the flag entirely".
// AutoApprove is a pointer so callers can force either state explicitly.
type Options struct {
	JSONOutput   bool
	Model        string
	AutoApprove  *bool
	SystemPrompt string
	MaxTurns     int
}
