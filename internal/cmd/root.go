// Package cmd wires the neurones CLI together: agent detection, the
// executor, and the orchestration and comparison flows behind cobra
// commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neurones/internal/config"
	"neurones/internal/output"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "neurones [prompt...]",
	Short: "Coordinate multiple AI CLI agents on one task",
	Long: `Neurones orchestrates the AI CLI agents installed on this machine
(claude, gemini, codex). Given a task, the primary agent plans a
delegation, subtasks run on worker agents in parallel, and the primary
synthesizes the results into a single answer.

Running neurones with a bare prompt triggers orchestration:

  neurones "compare these two API designs and recommend one"`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runOrchestrate,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(config.SetDefaults)

	rootCmd.PersistentFlags().String("primary", "", "primary agent (overrides config)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log debug detail to the log file")
}

func runOrchestrate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	prompt := strings.Join(args, " ")

	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	orch := app.Orchestrator()
	final, err := orch.Run(cmd.Context(), prompt)
	if err != nil {
		return fmt.Errorf("orchestration failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.OrchestrationSummary(prompt, orch.WorkerResults(), final))
	return nil
}
