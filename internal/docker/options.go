package docker

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/docker/go-connections/nat"
	"github.com/docker/go-units"
)

// RunOptions configures a docker run invocation. Zero values are omitted
// from the argument vector.
type RunOptions struct {
	Name        string
	Detach      bool
	Remove      bool // --rm
	Interactive bool
	TTY         bool
	User        string
	Workdir     string
	Entrypoint  string
	Env         map[string]string
	Labels      map[string]string
	Ports       []string // host:container specs, e.g. "8080:80/tcp"
	Volumes     []string // host:container mounts
	Network     string
	Restart     string // no, on-failure[:retries], always, unless-stopped
	Memory      string // human size, e.g. "512m"
	CPUs        float64
	Privileged  bool
	Pull        string // always, missing, never

	Image   string
	Command []string
}

// Validate checks the options that docker would otherwise reject at
// runtime: a missing image, malformed port specs, and unparsable
// memory limits.
func (o RunOptions) Validate() error {
	if o.Image == "" {
		return fmt.Errorf("run: image is required")
	}
	for _, p := range o.Ports {
		if _, err := nat.ParsePortSpec(p); err != nil {
			return fmt.Errorf("run: invalid port spec %q: %w", p, err)
		}
	}
	if o.Memory != "" {
		if _, err := units.RAMInBytes(o.Memory); err != nil {
			return fmt.Errorf("run: invalid memory limit %q: %w", o.Memory, err)
		}
	}
	return nil
}

func (o RunOptions) args() []string {
	args := []string{"run"}
	if o.Name != "" {
		args = append(args, "--name", o.Name)
	}
	if o.Detach {
		args = append(args, "--detach")
	}
	if o.Remove {
		args = append(args, "--rm")
	}
	if o.Interactive {
		args = append(args, "--interactive")
	}
	if o.TTY {
		args = append(args, "--tty")
	}
	if o.User != "" {
		args = append(args, "--user", o.User)
	}
	if o.Workdir != "" {
		args = append(args, "--workdir", o.Workdir)
	}
	if o.Entrypoint != "" {
		args = append(args, "--entrypoint", o.Entrypoint)
	}
	args = append(args, sortedKV("--env", o.Env)...)
	args = append(args, sortedKV("--label", o.Labels)...)
	for _, p := range o.Ports {
		args = append(args, "--publish", p)
	}
	for _, v := range o.Volumes {
		args = append(args, "--volume", v)
	}
	if o.Network != "" {
		args = append(args, "--network", o.Network)
	}
	if o.Restart != "" {
		args = append(args, "--restart", o.Restart)
	}
	if o.Memory != "" {
		args = append(args, "--memory", o.Memory)
	}
	if o.CPUs > 0 {
		args = append(args, "--cpus", strconv.FormatFloat(o.CPUs, 'f', -1, 64))
	}
	if o.Privileged {
		args = append(args, "--privileged")
	}
	if o.Pull != "" {
		args = append(args, "--pull", o.Pull)
	}
	args = append(args, o.Image)
	args = append(args, o.Command...)
	return args
}

// ExecOptions configures a docker exec invocation.
type ExecOptions struct {
	Interactive bool
	TTY         bool
	Detach      bool
	User        string
	Workdir     string
	Env         map[string]string

	Container string
	Command   []string
}

func (o ExecOptions) Validate() error {
	if o.Container == "" {
		return fmt.Errorf("exec: container is required")
	}
	if len(o.Command) == 0 {
		return fmt.Errorf("exec: command is required")
	}
	return nil
}

func (o ExecOptions) args() []string {
	args := []string{"exec"}
	if o.Interactive {
		args = append(args, "--interactive")
	}
	if o.TTY {
		args = append(args, "--tty")
	}
	if o.Detach {
		args = append(args, "--detach")
	}
	if o.User != "" {
		args = append(args, "--user", o.User)
	}
	if o.Workdir != "" {
		args = append(args, "--workdir", o.Workdir)
	}
	args = append(args, sortedKV("--env", o.Env)...)
	args = append(args, o.Container)
	args = append(args, o.Command...)
	return args
}

// PsOptions configures a docker ps invocation. Output format is always
// JSON lines; see ParsePs.
type PsOptions struct {
	All     bool
	Latest  bool
	Size    bool
	Limit   int
	Filters []string // key=value, passed in order
}

func (o PsOptions) args() []string {
	args := []string{"ps", "--no-trunc", "--format", "{{json .}}"}
	if o.All {
		args = append(args, "--all")
	}
	if o.Latest {
		args = append(args, "--latest")
	}
	if o.Size {
		args = append(args, "--size")
	}
	if o.Limit > 0 {
		args = append(args, "--last", strconv.Itoa(o.Limit))
	}
	for _, f := range o.Filters {
		args = append(args, "--filter", f)
	}
	return args
}

// LogsOptions configures a docker logs invocation.
type LogsOptions struct {
	Follow     bool
	Timestamps bool
	Details    bool
	Tail       int    // 0 means all
	Since      string // duration or RFC3339
	Until      string
}

func (o LogsOptions) args(container string) []string {
	args := []string{"logs"}
	if o.Follow {
		args = append(args, "--follow")
	}
	if o.Timestamps {
		args = append(args, "--timestamps")
	}
	if o.Details {
		args = append(args, "--details")
	}
	if o.Tail > 0 {
		args = append(args, "--tail", strconv.Itoa(o.Tail))
	}
	if o.Since != "" {
		args = append(args, "--since", o.Since)
	}
	if o.Until != "" {
		args = append(args, "--until", o.Until)
	}
	return append(args, container)
}

// StopOptions configures a docker stop invocation.
type StopOptions struct {
	Timeout int // seconds; 0 uses the daemon default
}

func (o StopOptions) args(container string) []string {
	args := []string{"stop"}
	if o.Timeout > 0 {
		args = append(args, "--time", strconv.Itoa(o.Timeout))
	}
	return append(args, container)
}

// RemoveOptions configures a docker rm invocation.
type RemoveOptions struct {
	Force   bool
	Volumes bool
}

func (o RemoveOptions) args(container string) []string {
	args := []string{"rm"}
	if o.Force {
		args = append(args, "--force")
	}
	if o.Volumes {
		args = append(args, "--volumes")
	}
	return append(args, container)
}

// PullOptions configures a docker pull invocation.
type PullOptions struct {
	Quiet    bool
	Platform string
}

func (o PullOptions) args(ref string) []string {
	args := []string{"pull"}
	if o.Quiet {
		args = append(args, "--quiet")
	}
	if o.Platform != "" {
		args = append(args, "--platform", o.Platform)
	}
	return append(args, ref)
}

// ImagesOptions configures a docker images invocation.
type ImagesOptions struct {
	All     bool
	Digests bool
	Filters []string
}

func (o ImagesOptions) args() []string {
	args := []string{"images", "--no-trunc", "--format", "{{json .}}"}
	if o.All {
		args = append(args, "--all")
	}
	if o.Digests {
		args = append(args, "--digests")
	}
	for _, f := range o.Filters {
		args = append(args, "--filter", f)
	}
	return args
}

// SwarmInitOptions configures a docker swarm init invocation.
type SwarmInitOptions struct {
	AdvertiseAddr   string
	ListenAddr      string
	ForceNewCluster bool
}

func (o SwarmInitOptions) args() []string {
	args := []string{"swarm", "init"}
	if o.AdvertiseAddr != "" {
		args = append(args, "--advertise-addr", o.AdvertiseAddr)
	}
	if o.ListenAddr != "" {
		args = append(args, "--listen-addr", o.ListenAddr)
	}
	if o.ForceNewCluster {
		args = append(args, "--force-new-cluster")
	}
	return args
}

// SwarmJoinOptions configures a docker swarm join invocation.
type SwarmJoinOptions struct {
	Token         string
	AdvertiseAddr string

	Remote string // manager address, e.g. "10.0.0.1:2377"
}

func (o SwarmJoinOptions) Validate() error {
	if o.Remote == "" {
		return fmt.Errorf("swarm join: remote manager address is required")
	}
	return nil
}

func (o SwarmJoinOptions) args() []string {
	args := []string{"swarm", "join"}
	if o.Token != "" {
		args = append(args, "--token", o.Token)
	}
	if o.AdvertiseAddr != "" {
		args = append(args, "--advertise-addr", o.AdvertiseAddr)
	}
	return append(args, o.Remote)
}

// sortedKV renders a map as repeated "flag key=value" pairs in key order,
// so argument vectors are deterministic.
func sortedKV(flag string, m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(m)*2)
	for _, k := range keys {
		args = append(args, flag, k+"="+m[k])
	}
	return args
}
