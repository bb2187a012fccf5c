// Package cmd provides the CLI commands for dockhand.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dockhand",
	Short: "A friendly wrapper around the docker CLI",
	Long: `dockhand - typed docker CLI wrapper

Builds docker argument vectors from typed options, streams command
output in real time, and parses CLI output back into structs.

CONTAINERS
  ps                    List containers (docker ps)
  logs [name]           Stream container logs
  run [image]           Run a container, streaming its output
  exec [name] -- cmd    Execute a command in a container
  stop [name]           Stop a container
  rm [name]             Remove a container

IMAGES
  pull [ref]            Pull an image with streamed progress
  images                List images

COMPOSE
  compose up            Start services from the compose file
  compose down          Stop and remove services
  compose restart       Restart services
  compose status        Show service status

DIAGNOSTICS
  version               Docker client/server versions
  doctor                Check binary, daemon, and compose plugin`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("dockhand version {{.Version}}\n")
}
