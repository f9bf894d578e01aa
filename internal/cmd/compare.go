package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neurones/internal/output"
)

var compareCmd = &cobra.Command{
	Use:   "compare <prompt...>",
	Short: "Run the same prompt on several agents side by side",
	Long: `Send one prompt to multiple agents in parallel and show every answer,
so you can judge them against each other. Defaults to all installed
agents; restrict the set with --agents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSlice("agents", nil, "comma-separated agent names (default: all installed)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	agents, _ := cmd.Flags().GetStringSlice("agents")
	results := app.Comparator().Compare(cmd.Context(), prompt, agents)
	if len(results) == 0 {
		return fmt.Errorf("none of the requested agents are installed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.ComparisonTable(results))
	return nil
}
