package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/docker"
	"github.com/cameronsjo/dockhand/internal/ui"
)

var pullPlatform string

var pullCmd = &cobra.Command{
	Use:   "pull <image>",
	Short: "Pull an image with streamed progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]
		return withClientSignal(func(ctx context.Context, client *docker.Client) error {
			err := client.Pull(ctx, ref, docker.PullOptions{Platform: pullPlatform}, printLine)
			if err != nil {
				return fmt.Errorf("pull image: %w", err)
			}
			ui.Success("Pulled %s", ref)
			return nil
		})
	},
}

func init() {
	pullCmd.Flags().StringVar(&pullPlatform, "platform", "", "Platform (e.g. linux/arm64)")
	rootCmd.AddCommand(pullCmd)
}
