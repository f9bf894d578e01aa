package adapter

import "neurones/internal/agent"

// Codex adapts the Codex CLI. It uses the exec subcommand and takes the
// prompt as the final positional argument.
type Codex struct {
	base
}

// NewCodex creates a Codex CLI adapter.
func NewCodex(cfg Config) *Codex {
	return &Codex{base: base{
		name:        "codex",
		displayName: "Codex CLI",
		provider:    "OpenAI",
		cfg:         cfg,
	}}
}

// BuildCommand builds the Codex argument vector. The prompt must be last.
func (c *Codex) BuildCommand(prompt string, opts agent.Options) []string {
	cmd := []string{c.cfg.BinaryPath, "exec"}

	if model := c.effectiveModel(opts); model != "" {
		cmd = append(cmd, "-m", model)
	}
	if c.effectiveAutoApprove(opts) {
		cmd = append(cmd, "--full-auto")
	}
	if opts.JSONOutput {
		cmd = append(cmd, "--json")
	}

	cmd = append(cmd, c.cfg.ExtraArgs...)
	return append(cmd, prompt)
}
