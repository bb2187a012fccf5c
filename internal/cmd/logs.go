package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/docker"
)

// DefaultLogTailLines is the default number of log lines to show.
const DefaultLogTailLines = 100

var (
	logsFollow     bool
	logsTail       int
	logsTimestamps bool
	logsSince      string
)

var logsCmd = &cobra.Command{
	Use:   "logs <name>",
	Short: "Stream container logs",
	Long:  `Shows logs from a container. Use -f to follow; interrupt with Ctrl-C.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		return withClientSignal(func(ctx context.Context, client *docker.Client) error {
			st, err := client.LogsStream(ctx, name, docker.LogsOptions{
				Follow:     logsFollow,
				Tail:       logsTail,
				Timestamps: logsTimestamps,
				Since:      logsSince,
			})
			if err != nil {
				return fmt.Errorf("stream logs: %w", err)
			}
			defer st.Close()

			for ln := range st.Lines() {
				printLine(ln)
			}

			res, err := st.Wait()
			if err != nil {
				return fmt.Errorf("stream logs: %w", err)
			}
			// An interrupt while following is a normal way out.
			if !res.Success && !logsFollow {
				return &docker.CommandError{Args: []string{"logs", name}, Result: res}
			}
			return nil
		})
	},
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", DefaultLogTailLines, "Number of lines to show from the end")
	logsCmd.Flags().BoolVarP(&logsTimestamps, "timestamps", "t", false, "Show timestamps")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration or timestamp")
	rootCmd.AddCommand(logsCmd)
}
