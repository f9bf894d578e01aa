package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neurones/internal/agent"
	"neurones/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run <agent> <prompt...>",
	Short: "Run a prompt on a single agent",
	Long: `Run a prompt on one named agent directly, without delegation.
The agent must be one of the installed CLIs (see "neurones status").`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("model", "", "model override for this run")
	runCmd.Flags().Bool("stream", false, "stream output lines as the agent produces them")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	agentName := args[0]
	prompt := strings.Join(args[1:], " ")

	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	model, _ := cmd.Flags().GetString("model")
	opts := agent.Options{Model: model, JSONOutput: app.cfg.JSONOutput}

	if stream, _ := cmd.Flags().GetBool("stream"); stream {
		lines, err := app.exec.Stream(cmd.Context(), agentName, prompt, opts)
		if err != nil {
			return err
		}
		for line := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	}

	result := app.exec.RunSingle(cmd.Context(), agentName, prompt, opts)
	fmt.Fprintln(cmd.OutOrStdout(), output.ResultPanel(result))
	if !result.Success {
		return fmt.Errorf("%s failed with exit code %d", agentName, result.ExitCode)
	}
	return nil
}
