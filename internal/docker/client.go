package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"

	"github.com/cameronsjo/dockhand/internal/stream"
)

// DefaultBinary is used when no binary path is configured.
const DefaultBinary = "docker"

// Client runs docker CLI commands through a configured streamer.
type Client struct {
	bin      string
	streamer *stream.Streamer
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	env   []string
	dir   string
	stdin io.Reader
}

// WithEnv appends environment variables (KEY=value) to every invocation,
// e.g. DOCKER_HOST or DOCKER_CONTEXT overrides.
func WithEnv(env []string) ClientOption {
	return func(c *clientConfig) { c.env = env }
}

// WithDir sets the working directory for every invocation.
func WithDir(dir string) ClientOption {
	return func(c *clientConfig) { c.dir = dir }
}

// WithStdin connects r to every invocation's standard input. Required
// for interactive run/exec, where docker -i forwards the caller's stdin
// into the container.
func WithStdin(r io.Reader) ClientOption {
	return func(c *clientConfig) { c.stdin = r }
}

// NewClient creates a client for the given docker binary path. An empty
// path selects DefaultBinary. The binary is explicit configuration;
// there is no package-level default to mutate.
func NewClient(binary string, opts ...ClientOption) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var sopts []stream.Option
	if len(cfg.env) > 0 {
		sopts = append(sopts, stream.WithEnv(cfg.env))
	}
	if cfg.dir != "" {
		sopts = append(sopts, stream.WithDir(cfg.dir))
	}
	if cfg.stdin != nil {
		sopts = append(sopts, stream.WithStdin(cfg.stdin))
	}
	return &Client{bin: binary, streamer: stream.New(binary, sopts...)}
}

// Binary returns the configured docker binary path.
func (c *Client) Binary() string { return c.bin }

// CommandError reports a docker command that ran to completion but
// exited non-zero. The Result still carries the full captured output.
type CommandError struct {
	Args   []string
	Result *stream.Result
}

func (e *CommandError) Error() string {
	detail := strings.TrimSpace(e.Result.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(e.Result.Stdout)
	}
	if i := strings.IndexByte(detail, '\n'); i >= 0 {
		detail = detail[:i]
	}
	if detail == "" {
		return fmt.Sprintf("docker %s: exit code %d", strings.Join(e.Args, " "), e.Result.ExitCode)
	}
	return fmt.Sprintf("docker %s: exit code %d: %s", strings.Join(e.Args, " "), e.Result.ExitCode, detail)
}

// output runs a command in batch mode and converts a non-zero exit into
// a CommandError. Used by the parse-oriented commands, where a failed
// invocation means there is nothing to parse.
func (c *Client) output(ctx context.Context, args []string) (*stream.Result, error) {
	res, err := c.streamer.Output(ctx, args)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, &CommandError{Args: args, Result: res}
	}
	return res, nil
}

// Version returns client and, when the daemon is reachable, server
// version details.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	res, err := c.output(ctx, []string{"version", "--format", "{{json .}}"})
	if err != nil {
		return nil, fmt.Errorf("docker version: %w", err)
	}
	return ParseVersion(res.Stdout)
}

// Ps lists containers.
func (c *Client) Ps(ctx context.Context, opts PsOptions) ([]ContainerSummary, error) {
	res, err := c.output(ctx, opts.args())
	if err != nil {
		return nil, fmt.Errorf("docker ps: %w", err)
	}
	return ParsePs(res.Stdout)
}

// Images lists images.
func (c *Client) Images(ctx context.Context, opts ImagesOptions) ([]ImageSummary, error) {
	res, err := c.output(ctx, opts.args())
	if err != nil {
		return nil, fmt.Errorf("docker images: %w", err)
	}
	return ParseImages(res.Stdout)
}

// Inspect returns the full inspect documents for the named containers,
// decoded into the Docker SDK's own types.
func (c *Client) Inspect(ctx context.Context, names ...string) ([]container.InspectResponse, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("docker inspect: at least one container is required")
	}
	args := append([]string{"inspect", "--type", "container"}, names...)
	res, err := c.output(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("docker inspect: %w", err)
	}
	return ParseInspect(res.Stdout)
}

// Run executes docker run. Lines are streamed to fn as they arrive; fn
// may be nil. The container's own exit status is the caller's business:
// it is returned in the Result, not as an error.
func (c *Client) Run(ctx context.Context, opts RunOptions, fn func(stream.Line)) (*stream.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return c.streamer.Run(ctx, opts.args(), fn)
}

// Exec executes docker exec. Like Run, a non-zero exit of the executed
// command is reported via the Result, not as an error.
func (c *Client) Exec(ctx context.Context, opts ExecOptions, fn func(stream.Line)) (*stream.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return c.streamer.Run(ctx, opts.args(), fn)
}

// Logs streams a container's logs to fn. With opts.Follow the call
// blocks until ctx is cancelled or the container stops.
func (c *Client) Logs(ctx context.Context, container string, opts LogsOptions, fn func(stream.Line)) (*stream.Result, error) {
	if container == "" {
		return nil, fmt.Errorf("docker logs: container is required")
	}
	return c.streamer.Run(ctx, opts.args(container), fn)
}

// LogsStream starts streaming a container's logs in channel mode. The
// caller receives lines from Stream.Lines and must Close or Wait the
// returned stream.
func (c *Client) LogsStream(ctx context.Context, container string, opts LogsOptions) (*stream.Stream, error) {
	if container == "" {
		return nil, fmt.Errorf("docker logs: container is required")
	}
	return c.streamer.Start(ctx, opts.args(container))
}

// Pull pulls an image, streaming progress lines to fn.
func (c *Client) Pull(ctx context.Context, ref string, opts PullOptions, fn func(stream.Line)) error {
	if ref == "" {
		return fmt.Errorf("docker pull: image reference is required")
	}
	args := opts.args(ref)
	res, err := c.streamer.Run(ctx, args, fn)
	if err != nil {
		return err
	}
	if !res.Success {
		return &CommandError{Args: args, Result: res}
	}
	return nil
}

// Stop stops a container.
func (c *Client) Stop(ctx context.Context, container string, opts StopOptions) error {
	if container == "" {
		return fmt.Errorf("docker stop: container is required")
	}
	if _, err := c.output(ctx, opts.args(container)); err != nil {
		return fmt.Errorf("docker stop: %w", err)
	}
	return nil
}

// Remove removes a container.
func (c *Client) Remove(ctx context.Context, container string, opts RemoveOptions) error {
	if container == "" {
		return fmt.Errorf("docker rm: container is required")
	}
	if _, err := c.output(ctx, opts.args(container)); err != nil {
		return fmt.Errorf("docker rm: %w", err)
	}
	return nil
}

// SwarmInit initializes a swarm and returns the CLI's guidance output,
// which includes the worker join command.
func (c *Client) SwarmInit(ctx context.Context, opts SwarmInitOptions) (string, error) {
	res, err := c.output(ctx, opts.args())
	if err != nil {
		return "", fmt.Errorf("docker swarm init: %w", err)
	}
	return res.Stdout, nil
}

// SwarmJoin joins this node to an existing swarm.
func (c *Client) SwarmJoin(ctx context.Context, opts SwarmJoinOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := c.output(ctx, opts.args()); err != nil {
		return fmt.Errorf("docker swarm join: %w", err)
	}
	return nil
}

// SwarmLeave removes this node from the swarm.
func (c *Client) SwarmLeave(ctx context.Context, force bool) error {
	args := []string{"swarm", "leave"}
	if force {
		args = append(args, "--force")
	}
	if _, err := c.output(ctx, args); err != nil {
		return fmt.Errorf("docker swarm leave: %w", err)
	}
	return nil
}
