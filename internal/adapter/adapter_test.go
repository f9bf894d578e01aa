package adapter

import (
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"neurones/internal/agent"
)

func boolPtr(v bool) *bool { return &v }

// approvalFlags maps each agent to its auto-confirm flag.
var approvalFlags = map[string]string{
	"claude": "--permission-mode",
	"codex":  "--full-auto",
	"gemini": "-y",
}

// modelFlags maps each agent to its model flag.
var modelFlags = map[string]string{
	"claude": "--model",
	"codex":  "-m",
	"gemini": "-m",
}

func allAdapters(cfg Config) []Adapter {
	return []Adapter{NewClaude(cfg), NewCodex(cfg), NewGemini(cfg)}
}

func TestBuildCommandAutoApproveDisabled(t *testing.T) {
	cfg := Config{BinaryPath: "/usr/local/bin/fake", AutoApprove: true}
	for _, a := range allAdapters(cfg) {
		cmd := a.BuildCommand("hello", agent.Options{AutoApprove: boolPtr(false)})
		flag := approvalFlags[a.Name()]
		if slices.Contains(cmd, flag) {
			t.Errorf("%s: command %v must not contain %q when auto-approve is off", a.Name(), cmd, flag)
		}
	}
}

func TestBuildCommandAutoApproveDefault(t *testing.T) {
	cfg := Config{BinaryPath: "/usr/local/bin/fake", AutoApprove: true}
	for _, a := range allAdapters(cfg) {
		cmd := a.BuildCommand("hello", agent.Options{})
		flag := approvalFlags[a.Name()]
		if !slices.Contains(cmd, flag) {
			t.Errorf("%s: command %v should contain %q from configured default", a.Name(), cmd, flag)
		}
	}
}

func TestBuildCommandModelFlagAppearsOnce(t *testing.T) {
	cfg := Config{BinaryPath: "/usr/local/bin/fake", DefaultModel: "default-model"}
	for _, a := range allAdapters(cfg) {
		cmd := a.BuildCommand("hello", agent.Options{Model: "override-model"})

		flag := modelFlags[a.Name()]
		count := 0
		for i, arg := range cmd {
			if arg == flag {
				count++
				if i+1 >= len(cmd) || cmd[i+1] != "override-model" {
					t.Errorf("%s: model flag not followed by override value in %v", a.Name(), cmd)
				}
			}
		}
		if count != 1 {
			t.Errorf("%s: model flag appears %d times in %v, want 1", a.Name(), count, cmd)
		}
		if slices.Contains(cmd, "default-model") {
			t.Errorf("%s: configured default must not appear when overridden: %v", a.Name(), cmd)
		}
	}
}

func TestBuildCommandModelOmittedWithoutConfig(t *testing.T) {
	cfg := Config{BinaryPath: "/usr/local/bin/fake"}
	for _, a := range allAdapters(cfg) {
		cmd := a.BuildCommand("hello", agent.Options{})
		if slices.Contains(cmd, modelFlags[a.Name()]) {
			t.Errorf("%s: model flag should be omitted entirely: %v", a.Name(), cmd)
		}
	}
}

func TestClaudeBuildCommand(t *testing.T) {
	a := NewClaude(Config{
		BinaryPath:  "/bin/claude",
		AutoApprove: true,
		MaxTurns:    15,
	})
	cmd := a.BuildCommand("explain this", agent.Options{
		JSONOutput:   true,
		SystemPrompt: "be brief",
	})

	want := []string{
		"/bin/claude", "-p", "explain this",
		"--output-format", "json",
		"--permission-mode", "dontAsk",
		"--append-system-prompt", "be brief",
		"--max-turns", "15",
	}
	if !reflect.DeepEqual(cmd, want) {
		t.Errorf("BuildCommand() = %v, want %v", cmd, want)
	}
}

func TestCodexBuildCommandPromptLast(t *testing.T) {
	a := NewCodex(Config{
		BinaryPath:  "/bin/codex",
		AutoApprove: true,
		ExtraArgs:   []string{"--skip-git-repo-check"},
	})
	cmd := a.BuildCommand("write tests", agent.Options{JSONOutput: true})

	want := []string{"/bin/codex", "exec", "--full-auto", "--json", "--skip-git-repo-check", "write tests"}
	if !reflect.DeepEqual(cmd, want) {
		t.Errorf("BuildCommand() = %v, want %v", cmd, want)
	}
	if cmd[len(cmd)-1] != "write tests" {
		t.Error("prompt must be the final argument")
	}
}

func TestGeminiBuildCommandPromptLast(t *testing.T) {
	a := NewGemini(Config{BinaryPath: "/bin/gemini", DefaultModel: "gemini-pro"})
	cmd := a.BuildCommand("search for docs", agent.Options{})

	want := []string{"/bin/gemini", "-m", "gemini-pro", "search for docs"}
	if !reflect.DeepEqual(cmd, want) {
		t.Errorf("BuildCommand() = %v, want %v", cmd, want)
	}
}

func TestBuildCommandDeterministic(t *testing.T) {
	a := NewClaude(Config{BinaryPath: "/bin/claude", AutoApprove: true})
	opts := agent.Options{Model: "m1", JSONOutput: true}

	first := a.BuildCommand("same prompt", opts)
	second := a.BuildCommand("same prompt", opts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("BuildCommand not deterministic: %v vs %v", first, second)
	}
}

func TestParseOutput(t *testing.T) {
	a := NewClaude(Config{BinaryPath: "/bin/claude"})

	r := a.ParseOutput([]byte("  answer text \n"), []byte(" warning \n"), 0)
	if !r.Success {
		t.Error("exit 0 without rate limiting should be success")
	}
	if r.Output != "answer text" {
		t.Errorf("Output = %q, want trimmed %q", r.Output, "answer text")
	}
	if r.Stderr != "warning" {
		t.Errorf("Stderr = %q, want %q", r.Stderr, "warning")
	}

	r = a.ParseOutput(nil, []byte("boom"), 2)
	if r.Success {
		t.Error("non-zero exit should not be success")
	}
	if r.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", r.ExitCode)
	}
}

func TestParseOutputInvalidBytes(t *testing.T) {
	a := NewCodex(Config{BinaryPath: "/bin/codex"})

	r := a.ParseOutput([]byte{0xff, 0xfe, 'o', 'k'}, nil, 0)
	if !strings.Contains(r.Output, "ok") {
		t.Errorf("Output = %q, should retain valid bytes", r.Output)
	}
	if !strings.ContainsRune(r.Output, '�') {
		t.Errorf("Output = %q, invalid bytes should be replaced", r.Output)
	}
}

func TestParseOutputRateLimitedOverridesExitZero(t *testing.T) {
	a := NewGemini(Config{BinaryPath: "/bin/gemini"})

	r := a.ParseOutput([]byte("Error 429: quota exceeded"), nil, 0)
	if r.Success {
		t.Error("rate-limited output must not be success even with exit 0")
	}
	if !r.RateLimited {
		t.Error("RateLimited should be true")
	}
}

func TestGeminiFilterStderr(t *testing.T) {
	a := NewGemini(Config{BinaryPath: "/bin/gemini"})

	stderr := "(node:123) [DEP0040] DeprecationWarning: The `punycode` module is deprecated.\n" +
		"(Use `node --trace-deprecation ...`)\n" +
		"real error line"
	got := a.FilterStderr(stderr)

	if strings.Contains(got, "punycode") || strings.Contains(got, "DeprecationWarning") {
		t.Errorf("FilterStderr() = %q, should drop node warnings", got)
	}
	if !strings.Contains(got, "real error line") {
		t.Errorf("FilterStderr() = %q, should keep real errors", got)
	}
}

func TestClaudeFilterStderrIsIdentity(t *testing.T) {
	a := NewClaude(Config{BinaryPath: "/bin/claude"})
	if got := a.FilterStderr("anything at all"); got != "anything at all" {
		t.Errorf("FilterStderr() = %q, want identity", got)
	}
}

func TestTimeoutDefault(t *testing.T) {
	a := NewClaude(Config{BinaryPath: "/bin/claude"})
	if a.Timeout() != 300*time.Second {
		t.Errorf("Timeout() = %v, want 300s default", a.Timeout())
	}

	a = NewClaude(Config{BinaryPath: "/bin/claude", Timeout: 30 * time.Second})
	if a.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", a.Timeout())
	}
}
