// Package preflight validates that the docker CLI environment is usable
// before commands run against it.
package preflight

import (
	"context"
	"os/exec"
	"time"

	"github.com/cameronsjo/dockhand/internal/stream"
)

// probeTimeout bounds each daemon/plugin probe.
const probeTimeout = 5 * time.Second

// Check is the outcome of one pre-flight probe.
type Check struct {
	Name   string
	OK     bool
	Detail string // version string on success, failure hint otherwise
}

// CheckBinary verifies the docker binary is on PATH (or is an absolute
// path to an executable).
func CheckBinary(binary string) Check {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Check{
			Name:   "docker binary",
			Detail: binary + " not found — install Docker: https://docs.docker.com/get-docker/",
		}
	}
	return Check{Name: "docker binary", OK: true, Detail: path}
}

// CheckDaemon probes daemon reachability via docker version.
func CheckDaemon(ctx context.Context, binary string) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	s := stream.New(binary)
	res, err := s.Output(ctx, []string{"version", "--format", "{{.Server.Version}}"})
	if err != nil {
		return Check{Name: "docker daemon", Detail: err.Error()}
	}
	if !res.Success {
		return Check{Name: "docker daemon", Detail: "daemon unreachable — is it running?"}
	}
	return Check{Name: "docker daemon", OK: true, Detail: res.Stdout}
}

// CheckCompose probes for the compose plugin.
func CheckCompose(ctx context.Context, binary string) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	s := stream.New(binary)
	res, err := s.Output(ctx, []string{"compose", "version", "--short"})
	if err != nil || !res.Success {
		return Check{
			Name:   "compose plugin",
			Detail: "docker compose not available — https://docs.docker.com/compose/install/",
		}
	}
	return Check{Name: "compose plugin", OK: true, Detail: res.Stdout}
}

// All runs every pre-flight check. The binary check failing short-circuits
// the probes that would need to execute it.
func All(ctx context.Context, binary string) []Check {
	bin := CheckBinary(binary)
	if !bin.OK {
		return []Check{bin}
	}
	return []Check{
		bin,
		CheckDaemon(ctx, binary),
		CheckCompose(ctx, binary),
	}
}
