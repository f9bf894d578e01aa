// Package detect probes the system for installed AI CLI agents. Detection
// resolves each known agent's binary on PATH and runs its version command
// with a short timeout; agents that fail the probe are still reported with
// an "unknown" version as long as the binary resolves.
package detect

import (
	"context"
	"os/exec"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"neurones/internal/logging"
)

// versionProbeTimeout bounds each --version invocation.
const versionProbeTimeout = 10 * time.Second

// Agent describes a detected AI CLI agent.
type Agent struct {
	Name        string
	BinaryPath  string
	Version     string
	DisplayName string
	Provider    string
	Available   bool
}

// knownAgent describes how to find and version-probe one agent kind.
type knownAgent struct {
	binary         string
	versionArgs    []string
	versionPattern *regexp.Regexp
	displayName    string
	provider       string
}

var semverPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

var knownAgents = map[string]knownAgent{
	"claude": {
		binary:         "claude",
		versionArgs:    []string{"--version"},
		versionPattern: semverPattern,
		displayName:    "Claude Code",
		provider:       "Anthropic",
	},
	"gemini": {
		binary:         "gemini",
		versionArgs:    []string{"--version"},
		versionPattern: semverPattern,
		displayName:    "Gemini CLI",
		provider:       "Google",
	},
	"codex": {
		binary:         "codex",
		versionArgs:    []string{"--version"},
		versionPattern: semverPattern,
		displayName:    "Codex CLI",
		provider:       "OpenAI",
	},
}

// Detector probes PATH for known AI CLI agents.
type Detector struct {
	log *logging.Logger

	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// NewDetector creates a Detector logging through log.
func NewDetector(log *logging.Logger) *Detector {
	return &Detector{log: log, lookPath: exec.LookPath}
}

// DetectAll probes every known agent concurrently and returns the available
// ones keyed by name. Probe failures degrade to version "unknown"; a binary
// missing from PATH omits the agent entirely.
func (d *Detector) DetectAll(ctx context.Context) map[string]Agent {
	results := make(map[string]Agent)
	var mu sync.Mutex
	var wg conc.WaitGroup

	for name, info := range knownAgents {
		path, err := d.lookPath(info.binary)
		if err != nil {
			d.log.Debug("agent not found on PATH", "agent", name)
			continue
		}
		d.log.Info("found agent", "agent", name, "path", path)

		wg.Go(func() {
			version := d.probeVersion(ctx, path, info)
			mu.Lock()
			results[name] = Agent{
				Name:        name,
				BinaryPath:  path,
				Version:     version,
				DisplayName: info.displayName,
				Provider:    info.provider,
				Available:   true,
			}
			mu.Unlock()
		})
	}

	wg.Wait()
	return results
}

// probeVersion runs the agent's version command and extracts the version
// string, returning "unknown" on any failure.
func (d *Detector) probeVersion(ctx context.Context, path string, info knownAgent) string {
	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, path, info.versionArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil && len(output) == 0 {
		d.log.Warn("version probe failed", "path", path, "error", err)
		return "unknown"
	}

	if match := info.versionPattern.FindSubmatch(output); match != nil {
		return string(match[1])
	}
	return "unknown"
}

// Names returns the known agent names sorted for stable display.
func Names() []string {
	names := make([]string, 0, len(knownAgents))
	for name := range knownAgents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
