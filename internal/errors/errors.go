// Package errors provides centralized error definitions for the neurones
// codebase: sentinel errors for the orchestration error taxonomy, semantic
// error types with context wrapping, and classification helpers.
//
// The taxonomy distinguishes configuration/lookup errors (unknown agent, no
// agents detected), process failures (captured into failed results, never
// raised past the executor), plan-parsing errors (recovered via fallback
// policy), and fatal orchestration errors (no worker available for a
// coordinator-only primary), which are the only ones that abort a run.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience, so callers can
// import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Agent-related sentinel errors
var (
	// ErrUnknownAgent indicates that a requested agent name has no adapter.
	ErrUnknownAgent = New("unknown agent")
	// ErrAgentUnavailable indicates that an agent binary was not detected.
	ErrAgentUnavailable = New("agent not available")
	// ErrNoAgentsDetected indicates that no AI CLI agents were found on the system.
	ErrNoAgentsDetected = New("no AI CLI agents detected; install at least one of: claude, gemini, codex")
)

// Orchestration-related sentinel errors
var (
	// ErrPlanInvalid indicates that the primary's delegation plan could not
	// be parsed into a JSON object with the required keys.
	ErrPlanInvalid = New("invalid delegation plan")
	// ErrAnalysisFailed indicates that the primary agent's analysis
	// invocation itself failed.
	ErrAnalysisFailed = New("primary agent failed during analysis")
	// ErrNoWorkersAvailable indicates that a coordinator-only primary has no
	// worker agent to fall back to. This is the only fatal orchestration error.
	ErrNoWorkersAvailable = New("no worker agents available for coordinator-only primary")
)

// AgentError wraps an error from a specific agent invocation with the agent
// name and the operation that failed.
type AgentError struct {
	Agent string
	Op    string
	Err   error
}

// NewAgentError creates an AgentError for the given agent and operation.
func NewAgentError(agentName, op string, err error) *AgentError {
	return &AgentError{Agent: agentName, Op: op, Err: err}
}

// Error returns the error message.
func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s: %s: %v", e.Agent, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *AgentError) Unwrap() error {
	return e.Err
}

// OrchestrationError wraps errors arising while driving the delegation flow.
// RawOutput holds the primary's raw text when plan parsing failed, for
// debugging.
type OrchestrationError struct {
	Message   string
	RawOutput string
	Err       error
}

// NewOrchestrationError creates an OrchestrationError with the given message.
func NewOrchestrationError(message string, err error) *OrchestrationError {
	return &OrchestrationError{Message: message, Err: err}
}

// WithRawOutput attaches the primary's raw output to the error.
func (e *OrchestrationError) WithRawOutput(raw string) *OrchestrationError {
	e.RawOutput = raw
	return e
}

// Error returns the error message.
func (e *OrchestrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *OrchestrationError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether an error must abort the whole orchestration run.
// Partial failures, plan-parsing errors, and per-agent process failures are
// all recoverable; only the no-workers and no-agents conditions are fatal.
func IsFatal(err error) bool {
	return Is(err, ErrNoWorkersAvailable) || Is(err, ErrNoAgentsDetected)
}
