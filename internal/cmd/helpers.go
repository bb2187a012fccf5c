package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/cameronsjo/dockhand/internal/config"
	"github.com/cameronsjo/dockhand/internal/docker"
	"github.com/cameronsjo/dockhand/internal/stream"
	"github.com/cameronsjo/dockhand/internal/ui"
)

// withClient loads configuration and executes fn with a docker client.
// Use this for simple operations that finish on their own.
func withClient(fn func(ctx context.Context, client *docker.Client) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client := docker.NewClient(cfg.Binary, docker.WithEnv(cfg.Env))
	return fn(context.Background(), client)
}

// withClientSignal is withClient with a context that is cancelled on
// SIGINT/SIGTERM. Use this for streaming operations (logs -f, run) so an
// interrupt kills the child process instead of orphaning it. Extra
// client options (e.g. docker.WithStdin for interactive runs) are
// applied on top of the configured defaults.
func withClientSignal(fn func(ctx context.Context, client *docker.Client) error, opts ...docker.ClientOption) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client := docker.NewClient(cfg.Binary, append([]docker.ClientOption{docker.WithEnv(cfg.Env)}, opts...)...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return fn(ctx, client)
}

// ensureTTY rejects --tty when stdin is not a terminal, before anything
// is spawned. Docker itself refuses with "the input device is not a
// TTY"; failing here gives the same answer without a child process.
func ensureTTY() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("--tty requires a terminal on stdin")
	}
	return nil
}

// composeClient builds a ComposeClient from the loaded configuration.
func composeClient() (*docker.ComposeClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return docker.NewComposeClient(cfg.Binary, cfg.ComposeFile)
}

// printLine forwards one streamed line to the terminal, stdout lines to
// stdout and stderr lines dimmed to stderr.
func printLine(ln stream.Line) {
	if ln.Source == stream.SourceStderr {
		ui.Stderr(ln.Text)
		return
	}
	fmt.Println(ln.Text)
}

// exitWithResult terminates the CLI with the child's exit code, so
// wrapped invocations compose in shell scripts like raw docker would.
func exitWithResult(res *stream.Result) {
	if res.Success {
		return
	}
	code := res.ExitCode
	if code < 0 {
		code = 1
	}
	os.Exit(code)
}
