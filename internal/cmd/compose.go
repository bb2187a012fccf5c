package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/ui"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Manage the compose stack",
	Long: `Compose commands for the project's compose file.

Commands:
  up        Start services (docker compose up -d)
  down      Stop and remove services
  restart   Restart services
  status    Show service status`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var composeUpCmd = &cobra.Command{
	Use:   "up [services...]",
	Short: "Start services",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := composeClient()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		if err := client.Up(ctx, printLine, args...); err != nil {
			return err
		}
		ui.Success("Stack is up")
		return nil
	},
}

var composeDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove services",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := composeClient()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		if err := client.Down(ctx, printLine); err != nil {
			return err
		}
		ui.Success("Stack is down")
		return nil
	},
}

var composeRestartCmd = &cobra.Command{
	Use:   "restart [services...]",
	Short: "Restart services",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := composeClient()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		if err := client.Restart(ctx, printLine, args...); err != nil {
			return err
		}
		ui.Success("Stack restarted")
		return nil
	},
}

var composeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := composeClient()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		services, err := client.Status(ctx)
		if err != nil {
			return err
		}

		if len(services) == 0 {
			ui.Warning("No services found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tSTATE\tSTATUS\tPORTS")
		for _, svc := range services {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", svc.Name, svc.State, svc.Status, svc.Ports)
		}
		w.Flush()
		return nil
	},
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func init() {
	composeCmd.AddCommand(composeUpCmd)
	composeCmd.AddCommand(composeDownCmd)
	composeCmd.AddCommand(composeRestartCmd)
	composeCmd.AddCommand(composeStatusCmd)
	rootCmd.AddCommand(composeCmd)
}
