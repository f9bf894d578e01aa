// Package orchestrator implements the delegation brain: it asks the primary
// agent to turn a user task into a structured plan, dispatches the plan's
// subtasks to worker agents in parallel, and feeds every collected result
// back to the primary for synthesis into one answer.
//
// The flow is a small state machine:
//
//	ANALYZE -> (DIRECT | DELEGATE) -> [SELF_TASK] -> SYNTHESIZE -> DONE
//
// with a worker-broadcast fallback whenever analysis fails or produces no
// usable subtasks. One agent identity is coordinator-only: when it is the
// primary it never executes work itself, so every path that would run the
// task on it reroutes to the remaining workers, and having no such worker
// is the single fatal condition.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"neurones/internal/adapter"
	"neurones/internal/agent"
	"neurones/internal/config"
	"neurones/internal/errors"
	"neurones/internal/logging"
)

// coordinatorOnlyAgent is the one primary identity restricted to
// coordination. Hardcoded by name rather than configurable; renaming the
// agent means revisiting this constant.
const coordinatorOnlyAgent = "claude"

// Runner is the executor surface the orchestrator depends on.
// *executor.Executor satisfies it; tests substitute scripted fakes.
type Runner interface {
	RunSingle(ctx context.Context, agentName, prompt string, opts agent.Options) agent.Result
	RunParallel(ctx context.Context, tasks []agent.Task, opts agent.Options) []agent.Result
}

// Orchestrator drives one task through analysis, delegation, and synthesis.
type Orchestrator struct {
	primary   string
	runner    Runner
	cfg       *config.Config
	log       *logging.Logger
	available []string

	lastResults []agent.Result
}

// WorkerResults returns the per-agent results collected during the most
// recent Run, for display alongside the synthesized answer. Empty when the
// run took the direct path.
func (o *Orchestrator) WorkerResults() []agent.Result {
	return o.lastResults
}

// New creates an Orchestrator. available lists the currently detected agent
// names; when nil, the adapter map's keys are used.
func New(primary string, adapters map[string]adapter.Adapter, runner Runner, cfg *config.Config, log *logging.Logger, available []string) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	if available == nil {
		available = make([]string, 0, len(adapters))
		for name := range adapters {
			available = append(available, name)
		}
	}
	return &Orchestrator{
		primary:   primary,
		runner:    runner,
		cfg:       cfg,
		log:       log,
		available: available,
	}
}

// Run executes the full orchestration flow for one prompt and returns the
// final synthesized text. The only fatal error is a coordinator-only
// primary with no worker agent to fall back to; every other failure is
// absorbed into a fallback path.
func (o *Orchestrator) Run(ctx context.Context, prompt string) (string, error) {
	o.log.Info("orchestrating", "primary", o.primary, "prompt_chars", len(prompt))

	plan, err := o.analyze(ctx, prompt)
	if err != nil {
		if o.coordinatorOnly() {
			o.log.Warn("analysis failed with coordinator-only primary, broadcasting to workers", "error", err)
			return o.broadcastAndSynthesize(ctx, prompt)
		}
		o.log.Warn("analysis failed, falling back to direct execution", "error", err)
		result := o.runner.RunSingle(ctx, o.primary, prompt, agent.Options{})
		return result.Output, nil
	}

	o.log.Info("delegation plan",
		"delegate", plan.Delegate, "subtasks", len(plan.Subtasks), "reasoning", plan.Reasoning)

	if !plan.Delegate {
		if o.coordinatorOnly() {
			o.log.Info("primary is coordinator-only, forcing worker delegation", "primary", o.primary)
			return o.broadcastAndSynthesize(ctx, prompt)
		}
		o.log.Info("no delegation needed, running on primary")
		result := o.runner.RunSingle(ctx, o.primary, prompt, agent.Options{})
		return result.Output, nil
	}

	tasks := o.dispatchTasks(plan.Subtasks)
	if len(tasks) == 0 {
		if o.coordinatorOnly() {
			o.log.Warn("no valid subtasks with coordinator-only primary, broadcasting to workers")
			return o.broadcastAndSynthesize(ctx, prompt)
		}
		o.log.Warn("no valid subtasks, falling back to direct execution")
		result := o.runner.RunSingle(ctx, o.primary, prompt, agent.Options{})
		return result.Output, nil
	}

	o.log.Info("dispatching subtasks", "count", len(tasks))
	results := o.runner.RunParallel(ctx, tasks, agent.Options{})
	for _, r := range results {
		o.log.Debug("subtask result", "agent", r.Agent, "status", r.StatusLabel(), "output", r.TruncatedOutput())
	}

	if plan.SelfTask != "" {
		if o.coordinatorOnly() {
			o.log.Info("ignoring self-task from coordinator-only primary", "primary", o.primary)
		} else {
			o.log.Info("running primary self-task")
			results = append(results, o.runner.RunSingle(ctx, o.primary, plan.SelfTask, agent.Options{}))
		}
	}

	return o.synthesize(ctx, prompt, results)
}

// coordinatorOnly reports whether the primary is restricted to
// coordination-only behavior.
func (o *Orchestrator) coordinatorOnly() bool {
	return o.primary == coordinatorOnlyAgent
}

// broadcastAndSynthesize sends the unmodified prompt to every available
// agent except the primary, then synthesizes. It fails fatally when no
// worker exists.
func (o *Orchestrator) broadcastAndSynthesize(ctx context.Context, prompt string) (string, error) {
	tasks := o.workerFallbackTasks(prompt)
	if len(tasks) == 0 {
		return "", errors.NewOrchestrationError("orchestration failed", errors.ErrNoWorkersAvailable)
	}
	results := o.runner.RunParallel(ctx, tasks, agent.Options{})
	return o.synthesize(ctx, prompt, results)
}

// workerFallbackTasks builds broadcast tasks for every available agent
// except the primary.
func (o *Orchestrator) workerFallbackTasks(prompt string) []agent.Task {
	var tasks []agent.Task
	for _, name := range o.available {
		if name == o.primary {
			continue
		}
		tasks = append(tasks, agent.Task{Agent: name, Prompt: prompt})
	}
	return tasks
}

// dispatchTasks converts plan subtasks into executable tasks, dropping
// entries with blank prompts, unavailable agents, and (for a
// coordinator-only primary) subtasks targeting the primary itself.
func (o *Orchestrator) dispatchTasks(subtasks []Subtask) []agent.Task {
	availableSet := make(map[string]bool, len(o.available))
	for _, name := range o.available {
		availableSet[name] = true
	}

	var tasks []agent.Task
	for _, sub := range subtasks {
		if strings.TrimSpace(sub.Prompt) == "" {
			o.log.Warn("skipping subtask with blank prompt", "agent", sub.Agent)
			continue
		}
		if !availableSet[sub.Agent] {
			o.log.Warn("skipping subtask for unavailable agent", "agent", sub.Agent)
			continue
		}
		if o.coordinatorOnly() && sub.Agent == o.primary {
			o.log.Warn("skipping subtask targeting coordinator-only primary", "agent", sub.Agent)
			continue
		}
		tasks = append(tasks, agent.Task{Agent: sub.Agent, Prompt: sub.Prompt})
	}
	return tasks
}

// analyze asks the primary agent for a delegation plan and parses it.
func (o *Orchestrator) analyze(ctx context.Context, prompt string) (*Plan, error) {
	var policyBlock string
	if o.coordinatorOnly() {
		policyBlock = "\n\n" + coordinatorOnlyPolicyPrompt
	}
	analysisPrompt := fmt.Sprintf("%s%s\n\nAVAILABLE (installed) AGENTS: %s\n\nUSER REQUEST:\n%s",
		analysisSystemPrompt, policyBlock, strings.Join(o.available, ", "), prompt)

	result := o.runner.RunSingle(ctx, o.primary, analysisPrompt, agent.Options{JSONOutput: true})
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", errors.ErrAnalysisFailed, result.Stderr)
	}

	plan, err := ExtractPlan(result.Output)
	if err != nil {
		o.log.Warn("failed to parse delegation plan", "error", err)
		return nil, errors.NewOrchestrationError("invalid delegation plan", err).WithRawOutput(result.Output)
	}
	return plan, nil
}

// synthesize sends all collected results back to the primary and returns
// its merged answer.
func (o *Orchestrator) synthesize(ctx context.Context, originalPrompt string, results []agent.Result) (string, error) {
	o.lastResults = results
	o.log.Info("synthesizing results", "count", len(results))
	final := o.runner.RunSingle(ctx, o.primary, buildSynthesisPrompt(originalPrompt, results), agent.Options{})
	return final.Output, nil
}

// buildSynthesisPrompt labels every result with its agent and status and
// appends the fixed merge instruction.
func buildSynthesisPrompt(originalPrompt string, results []agent.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ORIGINAL TASK: %s\n\nRESULTS FROM AGENTS:\n\n", originalPrompt)
	for _, r := range results {
		fmt.Fprintf(&b, "--- %s [%s] ---\n%s\n\n", strings.ToUpper(r.Agent), r.StatusLabel(), r.Output)
	}
	b.WriteString(synthesisInstruction)
	return b.String()
}
