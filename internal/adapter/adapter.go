// Package adapter translates (prompt, options) pairs into executable agent
// command lines and raw process output into structured results, one
// implementation per agent kind. Adapters are stateless across invocations;
// the executor holds a name-to-adapter mapping for the lifetime of a run.
package adapter

import (
	"strings"
	"time"

	"neurones/internal/agent"
)

// defaultTimeout applies when an adapter is configured without one.
const defaultTimeout = 300 * time.Second

// Adapter is the per-agent-kind contract. BuildCommand must be pure and
// deterministic for given inputs; ParseOutput must never fail on malformed
// bytes.
type Adapter interface {
	// Name is the canonical agent name ("claude", "gemini", "codex").
	Name() string
	// DisplayName is the human-readable agent name.
	DisplayName() string
	// Provider is the vendor behind the agent.
	Provider() string
	// Timeout is the per-invocation timeout.
	Timeout() time.Duration
	// BuildCommand returns the full argument vector, binary path first.
	BuildCommand(prompt string, opts agent.Options) []string
	// ParseOutput decodes raw process output into a Result.
	ParseOutput(stdout, stderr []byte, exitCode int) agent.Result
	// FilterStderr strips known benign warnings from stderr text.
	FilterStderr(stderr string) string
}

// Config carries the construction-time settings for one adapter instance.
type Config struct {
	BinaryPath   string
	Timeout      time.Duration
	AutoApprove  bool
	DefaultModel string
	MaxTurns     int
	ExtraArgs    []string
}

// base provides the identity, config resolution, and output parsing shared
// by all adapter variants. Variants only supply BuildCommand and, where
// needed, a stderr filter.
type base struct {
	name        string
	displayName string
	provider    string
	cfg         Config

	// stderrFilter strips variant-specific benign warnings; nil is identity.
	stderrFilter func(string) string
}

func (b *base) Name() string        { return b.name }
func (b *base) DisplayName() string { return b.displayName }
func (b *base) Provider() string    { return b.provider }

func (b *base) Timeout() time.Duration {
	if b.cfg.Timeout <= 0 {
		return defaultTimeout
	}
	return b.cfg.Timeout
}

// FilterStderr applies the variant's benign-warning filter.
func (b *base) FilterStderr(stderr string) string {
	if b.stderrFilter == nil {
		return stderr
	}
	return b.stderrFilter(stderr)
}

// ParseOutput decodes process output permissively: invalid byte sequences
// are replaced rather than rejected, whitespace is trimmed, and the
// variant's stderr filter is applied before rate-limit detection.
func (b *base) ParseOutput(stdout, stderr []byte, exitCode int) agent.Result {
	output := decode(stdout)
	errText := b.FilterStderr(decode(stderr))

	rateLimited := IsRateLimited(output, errText)

	return agent.Result{
		Agent:       b.name,
		Output:      output,
		Stderr:      errText,
		Success:     exitCode == 0 && !rateLimited,
		ExitCode:    exitCode,
		RateLimited: rateLimited,
	}
}

// effectiveModel resolves the model flag value: call-time option first,
// then the configured default, else empty (omit the flag).
func (b *base) effectiveModel(opts agent.Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	return b.cfg.DefaultModel
}

// effectiveAutoApprove resolves the approval flag: explicit call-time
// override wins, else the configured default.
func (b *base) effectiveAutoApprove(opts agent.Options) bool {
	if opts.AutoApprove != nil {
		return *opts.AutoApprove
	}
	return b.cfg.AutoApprove
}

// effectiveMaxTurns resolves the turn limit the same way.
func (b *base) effectiveMaxTurns(opts agent.Options) int {
	if opts.MaxTurns > 0 {
		return opts.MaxTurns
	}
	return b.cfg.MaxTurns
}

// decode converts raw process bytes to trimmed valid UTF-8.
func decode(raw []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(raw), "�"))
}
