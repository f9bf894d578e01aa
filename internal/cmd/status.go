package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"neurones/internal/config"
	"neurones/internal/detect"
	"neurones/internal/logging"
	"neurones/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed agents and the active configuration",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.Default(config.Dir())
	defer func() { _ = log.Close() }()

	detected := detect.NewDetector(log).DetectAll(cmd.Context())

	fmt.Fprintln(cmd.OutOrStdout(), output.StatusTable(detected, cfg.Primary))
	fmt.Fprintf(cmd.OutOrStdout(), "\nConfig: %s\n", config.Dir())
	return nil
}
