package adapter

import (
	"fmt"
	"time"

	"neurones/internal/config"
	"neurones/internal/detect"
	"neurones/internal/errors"
)

// Constructor builds an adapter instance from its configuration.
type Constructor func(Config) Adapter

// constructors selects the adapter variant by agent name. Adding an agent
// kind means adding one entry here plus its variant implementation.
var constructors = map[string]Constructor{
	"claude": func(cfg Config) Adapter { return NewClaude(cfg) },
	"gemini": func(cfg Config) Adapter { return NewGemini(cfg) },
	"codex":  func(cfg Config) Adapter { return NewCodex(cfg) },
}

// New constructs the adapter variant registered under name.
func New(name string, cfg Config) (Adapter, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownAgent, name)
	}
	return ctor(cfg), nil
}

// Names returns the registered adapter names in no particular order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	return names
}

// FromDetected builds adapter instances for every detected agent that has a
// registered variant, merging detection results with per-agent config. A
// configured binary path overrides the detected one.
func FromDetected(detected map[string]detect.Agent, cfg *config.Config) map[string]Adapter {
	adapters := make(map[string]Adapter, len(detected))
	for name, found := range detected {
		ctor, ok := constructors[name]
		if !ok {
			continue
		}
		agentCfg := cfg.AgentConfig(name)

		binary := found.BinaryPath
		if agentCfg.BinaryPath != "" {
			binary = agentCfg.BinaryPath
		}

		adapters[name] = ctor(Config{
			BinaryPath:   binary,
			Timeout:      time.Duration(agentCfg.Timeout) * time.Second,
			AutoApprove:  agentCfg.AutoApprove,
			DefaultModel: agentCfg.DefaultModel,
			MaxTurns:     agentCfg.MaxTurns,
			ExtraArgs:    agentCfg.ExtraArgs,
		})
	}
	return adapters
}
