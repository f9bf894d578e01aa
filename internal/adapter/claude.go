package adapter

import (
	"strconv"

	"neurones/internal/agent"
)

// Claude adapts the Claude Code CLI. The prompt is passed through the -p
// flag rather than positionally.
type Claude struct {
	base
}

// NewClaude creates a Claude Code adapter.
func NewClaude(cfg Config) *Claude {
	return &Claude{base: base{
		name:        "claude",
		displayName: "Claude Code",
		provider:    "Anthropic",
		cfg:         cfg,
	}}
}

// BuildCommand builds the Claude Code argument vector.
func (c *Claude) BuildCommand(prompt string, opts agent.Options) []string {
	cmd := []string{c.cfg.BinaryPath, "-p", prompt}

	if opts.JSONOutput {
		cmd = append(cmd, "--output-format", "json")
	}
	if model := c.effectiveModel(opts); model != "" {
		cmd = append(cmd, "--model", model)
	}
	if c.effectiveAutoApprove(opts) {
		cmd = append(cmd, "--permission-mode", "dontAsk")
	}
	if opts.SystemPrompt != "" {
		cmd = append(cmd, "--append-system-prompt", opts.SystemPrompt)
	}
	if turns := c.effectiveMaxTurns(opts); turns > 0 {
		cmd = append(cmd, "--max-turns", strconv.Itoa(turns))
	}

	return append(cmd, c.cfg.ExtraArgs...)
}
