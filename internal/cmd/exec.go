package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/docker"
)

var (
	execUser        string
	execWorkdir     string
	execEnv         []string
	execInteractive bool
	execTTY         bool
)

var execCmd = &cobra.Command{
	Use:   "exec <container> -- <command...>",
	Short: "Execute a command in a running container",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if execTTY {
			if err := ensureTTY(); err != nil {
				return err
			}
		}
		opts := docker.ExecOptions{
			User:        execUser,
			Workdir:     execWorkdir,
			Env:         kvMap(execEnv),
			Interactive: execInteractive,
			TTY:         execTTY,
			Container:   args[0],
			Command:     args[1:],
		}
		var copts []docker.ClientOption
		if execInteractive {
			copts = append(copts, docker.WithStdin(os.Stdin))
		}

		return withClientSignal(func(ctx context.Context, client *docker.Client) error {
			res, err := client.Exec(ctx, opts, printLine)
			if err != nil {
				return fmt.Errorf("exec in container: %w", err)
			}
			exitWithResult(res)
			return nil
		}, copts...)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *docker.Client) error {
			if err := client.Stop(ctx, args[0], docker.StopOptions{Timeout: stopTimeout}); err != nil {
				return err
			}
			return nil
		})
	},
}

var stopTimeout int

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *docker.Client) error {
			return client.Remove(ctx, args[0], docker.RemoveOptions{Force: rmForce})
		})
	},
}

var rmForce bool

func init() {
	execCmd.Flags().StringVarP(&execUser, "user", "u", "", "Run as user")
	execCmd.Flags().StringVarP(&execWorkdir, "workdir", "w", "", "Working directory inside the container")
	execCmd.Flags().StringSliceVarP(&execEnv, "env", "e", nil, "Environment variables (KEY=value)")
	execCmd.Flags().BoolVarP(&execInteractive, "interactive", "i", false, "Forward stdin to the container")
	execCmd.Flags().BoolVarP(&execTTY, "tty", "t", false, "Allocate a pseudo-TTY (requires a terminal)")
	stopCmd.Flags().IntVarP(&stopTimeout, "time", "t", 0, "Seconds to wait before killing")
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Force removal of a running container")
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(rmCmd)
}
