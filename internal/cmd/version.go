package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/docker"
	"github.com/cameronsjo/dockhand/internal/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show docker client and server versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *docker.Client) error {
			v, err := client.Version(ctx)
			if err != nil {
				return fmt.Errorf("get version: %w", err)
			}

			ui.Header("Client")
			ui.Detail("Version:     %s", v.Client.Version)
			ui.Detail("API version: %s", v.Client.APIVersion)
			ui.Detail("Go version:  %s", v.Client.GoVersion)

			if v.Server == nil {
				ui.Warning("Server unreachable")
				return nil
			}
			ui.Header("Server")
			ui.Detail("Version:     %s", v.Server.Version)
			ui.Detail("API version: %s", v.Server.APIVersion)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
