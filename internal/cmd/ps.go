package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/dockhand/internal/docker"
	"github.com/cameronsjo/dockhand/internal/ui"
)

// MaxPortDisplayLength is the maximum length for displaying port mappings
// before truncation.
const MaxPortDisplayLength = 40

var (
	psAll     bool
	psFilters []string
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List containers",
	Long:  `Lists containers with their state, status, and ports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *docker.Client) error {
			containers, err := client.Ps(ctx, docker.PsOptions{
				All:     psAll,
				Filters: psFilters,
			})
			if err != nil {
				return fmt.Errorf("list containers: %w", err)
			}

			if len(containers) == 0 {
				ui.Warning("No containers found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tIMAGE\tSTATUS\tPORTS")
			fmt.Fprintln(w, "----\t-----\t------\t-----")

			for _, c := range containers {
				ports := strings.Join(c.Ports, ", ")
				if len(ports) > MaxPortDisplayLength {
					ports = ports[:MaxPortDisplayLength-3] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Image, c.Status, ports)
			}

			w.Flush()
			return nil
		})
	},
}

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List images",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *docker.Client) error {
			images, err := client.Images(ctx, docker.ImagesOptions{})
			if err != nil {
				return fmt.Errorf("list images: %w", err)
			}

			if len(images) == 0 {
				ui.Warning("No images found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REPOSITORY\tTAG\tID")
			for _, img := range images {
				fmt.Fprintf(w, "%s\t%s\t%s\n", img.Repository, img.Tag, shortID(img.ID))
			}

			w.Flush()
			return nil
		})
	},
}

// shortID trims an image or container ID for display, including the
// sha256: prefix the CLI emits with --no-trunc.
func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func init() {
	psCmd.Flags().BoolVarP(&psAll, "all", "a", false, "Include stopped containers")
	psCmd.Flags().StringSliceVarP(&psFilters, "filter", "f", nil, "Filter output (key=value)")
	rootCmd.AddCommand(psCmd)
	rootCmd.AddCommand(imagesCmd)
}
