package docker

import (
	"context"
	"fmt"
	"os"

	"github.com/cameronsjo/dockhand/internal/stream"
)

// ServiceStatus represents the status of a docker compose service.
type ServiceStatus struct {
	Name    string
	State   string
	Status  string
	Ports   string
	Running bool
}

// ComposeClient handles docker compose operations for one compose file.
type ComposeClient struct {
	file     string
	streamer *stream.Streamer
}

// NewComposeClient creates a compose client for the given binary and
// compose file. The file must exist.
func NewComposeClient(binary, file string) (*ComposeClient, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("compose file not found: %s", file)
	}
	return &ComposeClient{file: file, streamer: stream.New(binary)}, nil
}

func (c *ComposeClient) compose(args ...string) []string {
	return append([]string{"compose", "-f", c.file}, args...)
}

// run executes a compose subcommand, streaming progress lines to fn,
// and converts a non-zero exit into a CommandError.
func (c *ComposeClient) run(ctx context.Context, args []string, fn func(stream.Line)) error {
	res, err := c.streamer.Run(ctx, args, fn)
	if err != nil {
		return err
	}
	if !res.Success {
		return &CommandError{Args: args, Result: res}
	}
	return nil
}

// Up starts services defined in the compose file in detached mode.
// Progress lines (compose reports them on stderr) stream to fn.
func (c *ComposeClient) Up(ctx context.Context, fn func(stream.Line), services ...string) error {
	args := c.compose("up", "-d")
	args = append(args, services...)
	if err := c.run(ctx, args, fn); err != nil {
		return fmt.Errorf("docker compose up: %w", err)
	}
	return nil
}

// Down stops and removes services defined in the compose file.
func (c *ComposeClient) Down(ctx context.Context, fn func(stream.Line)) error {
	if err := c.run(ctx, c.compose("down"), fn); err != nil {
		return fmt.Errorf("docker compose down: %w", err)
	}
	return nil
}

// Restart restarts services defined in the compose file.
func (c *ComposeClient) Restart(ctx context.Context, fn func(stream.Line), services ...string) error {
	args := c.compose("restart")
	args = append(args, services...)
	if err := c.run(ctx, args, fn); err != nil {
		return fmt.Errorf("docker compose restart: %w", err)
	}
	return nil
}

// Status returns the status of services in the compose file.
func (c *ComposeClient) Status(ctx context.Context) ([]ServiceStatus, error) {
	args := c.compose("ps", "--format", "{{.Name}}\t{{.State}}\t{{.Status}}\t{{.Ports}}")
	res, err := c.streamer.Output(ctx, args)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("docker compose ps: %w", &CommandError{Args: args, Result: res})
	}
	return parseServiceStatus(res.Stdout), nil
}

// parseServiceStatus decodes the tab-separated compose ps output.
func parseServiceStatus(out string) []ServiceStatus {
	var services []ServiceStatus
	for _, cols := range parseTable(out, 3) {
		svc := ServiceStatus{
			Name:    cols[0],
			State:   cols[1],
			Status:  cols[2],
			Running: cols[1] == "running",
		}
		if len(cols) > 3 {
			svc.Ports = cols[3]
		}
		services = append(services, svc)
	}
	return services
}

// Ps runs docker compose ps and returns the raw output.
func (c *ComposeClient) Ps(ctx context.Context) (string, error) {
	args := c.compose("ps")
	res, err := c.streamer.Output(ctx, args)
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "", fmt.Errorf("docker compose ps: %w", &CommandError{Args: args, Result: res})
	}
	return res.Stdout, nil
}

// Logs streams service logs to fn. With follow the call blocks until
// ctx is cancelled.
func (c *ComposeClient) Logs(ctx context.Context, follow bool, fn func(stream.Line), services ...string) error {
	args := c.compose("logs")
	if follow {
		args = append(args, "--follow")
	}
	args = append(args, services...)
	if err := c.run(ctx, args, fn); err != nil {
		return fmt.Errorf("docker compose logs: %w", err)
	}
	return nil
}
