package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/docker"
)

var (
	runName        string
	runDetach      bool
	runRemove      bool
	runInteractive bool
	runTTY         bool
	runEnv         []string
	runPorts       []string
	runVolumes     []string
	runNetwork     string
	runMemory      string
)

var runCmd = &cobra.Command{
	Use:   "run <image> [command...]",
	Short: "Run a container, streaming its output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runTTY {
			if err := ensureTTY(); err != nil {
				return err
			}
		}
		opts := docker.RunOptions{
			Name:        runName,
			Detach:      runDetach,
			Remove:      runRemove,
			Interactive: runInteractive,
			TTY:         runTTY,
			Env:         kvMap(runEnv),
			Ports:       runPorts,
			Volumes:     runVolumes,
			Network:     runNetwork,
			Memory:      runMemory,
			Image:       args[0],
			Command:     args[1:],
		}
		var copts []docker.ClientOption
		if runInteractive {
			copts = append(copts, docker.WithStdin(os.Stdin))
		}

		return withClientSignal(func(ctx context.Context, client *docker.Client) error {
			res, err := client.Run(ctx, opts, printLine)
			if err != nil {
				return fmt.Errorf("run container: %w", err)
			}
			exitWithResult(res)
			return nil
		}, copts...)
	},
}

// kvMap converts repeated KEY=value flags into a map. A bare KEY takes
// its value from the current environment, like the docker CLI does.
func kvMap(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if k, v, ok := strings.Cut(p, "="); ok {
			m[k] = v
		} else {
			m[p] = os.Getenv(p)
		}
	}
	return m
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "Container name")
	runCmd.Flags().BoolVarP(&runDetach, "detach", "d", false, "Run in the background")
	runCmd.Flags().BoolVar(&runRemove, "rm", true, "Remove the container when it exits")
	runCmd.Flags().BoolVarP(&runInteractive, "interactive", "i", false, "Forward stdin to the container")
	runCmd.Flags().BoolVarP(&runTTY, "tty", "t", false, "Allocate a pseudo-TTY (requires a terminal)")
	runCmd.Flags().StringSliceVarP(&runEnv, "env", "e", nil, "Environment variables (KEY=value)")
	runCmd.Flags().StringSliceVarP(&runPorts, "publish", "p", nil, "Publish ports (host:container)")
	runCmd.Flags().StringSliceVarP(&runVolumes, "volume", "v", nil, "Bind mounts (host:container)")
	runCmd.Flags().StringVar(&runNetwork, "network", "", "Network to attach")
	runCmd.Flags().StringVarP(&runMemory, "memory", "m", "", "Memory limit (e.g. 512m)")
	rootCmd.AddCommand(runCmd)
}
