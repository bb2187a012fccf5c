package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/config"
	"github.com/cameronsjo/dockhand/internal/preflight"
	"github.com/cameronsjo/dockhand/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check binary, daemon, and compose plugin",
	Long:  `Runs pre-flight checks: docker binary on PATH, daemon reachability, compose plugin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ui.Header("Pre-flight checks (%s)", cfg.Binary)

		failed := 0
		for _, check := range preflight.All(context.Background(), cfg.Binary) {
			if check.OK {
				ui.Success("%s: %s", check.Name, check.Detail)
			} else {
				ui.Error("%s: %s", check.Name, check.Detail)
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
