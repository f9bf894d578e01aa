package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"neurones/internal/adapter"
	"neurones/internal/compare"
	"neurones/internal/config"
	"neurones/internal/detect"
	"neurones/internal/errors"
	"neurones/internal/executor"
	"neurones/internal/logging"
	"neurones/internal/orchestrator"
)

// app holds everything the commands share: configuration, logging, the
// detected agent set, and the executor built over it.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	detected map[string]detect.Agent
	adapters map[string]adapter.Adapter
	exec     *executor.Executor
	primary  string
}

// setup loads config, opens the log file, detects installed agents, and
// builds adapters and the executor. It fails when no agent is installed.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.Default(config.Dir())
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.Debug("verbose logging enabled")
	}

	detector := detect.NewDetector(log)
	detected := detector.DetectAll(cmd.Context())

	adapters := adapter.FromDetected(detected, cfg)
	if len(adapters) == 0 {
		_ = log.Close()
		return nil, errors.ErrNoAgentsDetected
	}

	primary := cfg.Primary
	if flagPrimary, _ := cmd.Flags().GetString("primary"); flagPrimary != "" {
		primary = flagPrimary
	}
	if _, ok := adapters[primary]; !ok {
		fallback := availableNames(adapters)[0]
		log.Warn("primary agent not installed, falling back", "primary", primary, "fallback", fallback)
		primary = fallback
	}

	return &app{
		cfg:      cfg,
		log:      log,
		detected: detected,
		adapters: adapters,
		exec:     executor.New(adapters, cfg, log),
		primary:  primary,
	}, nil
}

func (a *app) Close() {
	_ = a.log.Close()
}

func (a *app) Orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(a.primary, a.adapters, a.exec, a.cfg, a.log, availableNames(a.adapters))
}

func (a *app) Comparator() *compare.Comparator {
	return compare.New(a.adapters, a.exec, a.log)
}

func availableNames(adapters map[string]adapter.Adapter) []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
