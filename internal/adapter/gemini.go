package adapter

import (
	"strings"

	"neurones/internal/agent"
)

// Gemini adapts the Gemini CLI. It takes the prompt as the final positional
// argument and strips Node.js deprecation noise from stderr.
type Gemini struct {
	base
}

// NewGemini creates a Gemini CLI adapter.
func NewGemini(cfg Config) *Gemini {
	g := &Gemini{base: base{
		name:        "gemini",
		displayName: "Gemini CLI",
		provider:    "Google",
		cfg:         cfg,
	}}
	g.stderrFilter = filterNodeWarnings
	return g
}

// BuildCommand builds the Gemini argument vector. The prompt must be last.
func (g *Gemini) BuildCommand(prompt string, opts agent.Options) []string {
	cmd := []string{g.cfg.BinaryPath}

	if opts.JSONOutput {
		cmd = append(cmd, "--output-format", "json")
	}
	if model := g.effectiveModel(opts); model != "" {
		cmd = append(cmd, "-m", model)
	}
	if g.effectiveAutoApprove(opts) {
		cmd = append(cmd, "-y")
	}

	cmd = append(cmd, g.cfg.ExtraArgs...)
	return append(cmd, prompt)
}

// filterNodeWarnings drops the punycode deprecation warning the Gemini CLI
// emits through Node.js, so it doesn't pollute displayed errors.
func filterNodeWarnings(stderr string) string {
	var kept []string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.Contains(strings.ToLower(line), "punycode") {
			continue
		}
		if strings.Contains(line, "DeprecationWarning") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
