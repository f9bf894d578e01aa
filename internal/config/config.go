// Package config handles configuration loading for neurones. Configuration
// lives in a TOML file at ~/.neurones/config.toml, is read through viper,
// and can be overridden with NEURONES_ environment variables. A commented
// default file is written on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileName is the configuration filename inside the neurones home
// directory.
const ConfigFileName = "config.toml"

// Config represents the complete neurones configuration.
type Config struct {
	// Primary is the agent designated as orchestrator brain.
	Primary string `mapstructure:"primary"`
	// ParallelTimeout is the overall budget in seconds for a parallel batch.
	ParallelTimeout int `mapstructure:"parallel_timeout"`
	// JSONOutput requests JSON-formatted output from agents that support it.
	JSONOutput bool `mapstructure:"json_output"`
	// MaxRetries is the number of retry attempts after a rate-limited attempt.
	MaxRetries int `mapstructure:"max_retries"`
	// RetryBaseDelay is the exponential backoff base in seconds.
	RetryBaseDelay float64 `mapstructure:"retry_base_delay"`
	// RetryMaxDelay caps every retry delay, in seconds.
	RetryMaxDelay float64 `mapstructure:"retry_max_delay"`
	// Agents holds per-agent settings keyed by agent name.
	Agents map[string]AgentConfig `mapstructure:"agents"`
}

// AgentConfig holds per-agent settings.
type AgentConfig struct {
	// BinaryPath overrides the auto-detected binary location.
	BinaryPath string `mapstructure:"binary_path"`
	// DefaultModel is passed as the model flag when no call-time model is given.
	DefaultModel string `mapstructure:"default_model"`
	// AutoApprove enables the agent's non-interactive approval flag.
	AutoApprove bool `mapstructure:"auto_approve"`
	// Timeout is the per-invocation timeout in seconds.
	Timeout int `mapstructure:"timeout"`
	// MaxTurns limits agentic turns for agents that support it.
	MaxTurns int `mapstructure:"max_turns"`
	// ExtraArgs are appended verbatim to every command line.
	ExtraArgs []string `mapstructure:"extra_args"`
}

// defaultConfigTOML is written to disk on first run.
const defaultConfigTOML = `# Neurones configuration
# Primary orchestrator agent (brain)
primary = "claude"

# Global settings
parallel_timeout = 600
json_output = true

# Rate limit retry settings
max_retries = 3
retry_base_delay = 5.0
retry_max_delay = 60.0

[agents.claude]
auto_approve = true
timeout = 300
max_turns = 15

[agents.gemini]
auto_approve = true
timeout = 300

[agents.codex]
auto_approve = true
timeout = 300
extra_args = ["--skip-git-repo-check"]
`

// Default returns the built-in configuration, matching the default file.
func Default() *Config {
	return &Config{
		Primary:         "claude",
		ParallelTimeout: 600,
		JSONOutput:      true,
		MaxRetries:      3,
		RetryBaseDelay:  5.0,
		RetryMaxDelay:   60.0,
		Agents: map[string]AgentConfig{
			"claude": {AutoApprove: true, Timeout: 300, MaxTurns: 15},
			"gemini": {AutoApprove: true, Timeout: 300},
			"codex":  {AutoApprove: true, Timeout: 300, ExtraArgs: []string{"--skip-git-repo-check"}},
		},
	}
}

// SetDefaults registers the built-in defaults with viper so they apply even
// without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("primary", defaults.Primary)
	viper.SetDefault("parallel_timeout", defaults.ParallelTimeout)
	viper.SetDefault("json_output", defaults.JSONOutput)
	viper.SetDefault("max_retries", defaults.MaxRetries)
	viper.SetDefault("retry_base_delay", defaults.RetryBaseDelay)
	viper.SetDefault("retry_max_delay", defaults.RetryMaxDelay)

	for name, agent := range defaults.Agents {
		viper.SetDefault("agents."+name+".auto_approve", agent.AutoApprove)
		viper.SetDefault("agents."+name+".timeout", agent.Timeout)
		if agent.MaxTurns > 0 {
			viper.SetDefault("agents."+name+".max_turns", agent.MaxTurns)
		}
		if len(agent.ExtraArgs) > 0 {
			viper.SetDefault("agents."+name+".extra_args", agent.ExtraArgs)
		}
	}
}

// Load reads the configuration file, creating the default file first if
// none exists, and unmarshals the merged settings.
func Load() (*Config, error) {
	SetDefaults()

	configPath := filepath.Join(Dir(), ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if writeErr := writeDefaultFile(configPath); writeErr != nil {
			// A read-only home is not fatal; run on defaults.
			return Default(), nil
		}
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("NEURONES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Unparseable config falls back to defaults rather than blocking runs.
		return Default(), nil
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Agents == nil {
		cfg.Agents = Default().Agents
	}
	return &cfg, nil
}

// writeDefaultFile materializes the default TOML at path.
func writeDefaultFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigTOML), 0644)
}

// AgentConfig returns the settings for a specific agent, falling back to
// zero-value settings with the standard timeout when the agent is not
// configured.
func (c *Config) AgentConfig(name string) AgentConfig {
	if agent, ok := c.Agents[name]; ok {
		return agent
	}
	return AgentConfig{AutoApprove: true, Timeout: 300}
}

// Dir returns the neurones home directory (~/.neurones). The NEURONES_HOME
// environment variable overrides it, which tests rely on.
func Dir() string {
	if dir := os.Getenv("NEURONES_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".neurones"
	}
	return filepath.Join(home, ".neurones")
}
