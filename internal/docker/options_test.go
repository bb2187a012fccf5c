package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOptionsArgs(t *testing.T) {
	tests := []struct {
		name string
		opts RunOptions
		want []string
	}{
		{
			name: "image only",
			opts: RunOptions{Image: "alpine"},
			want: []string{"run", "alpine"},
		},
		{
			name: "detached named container",
			opts: RunOptions{Name: "web", Detach: true, Image: "nginx:latest"},
			want: []string{"run", "--name", "web", "--detach", "nginx:latest"},
		},
		{
			name: "env sorted by key",
			opts: RunOptions{
				Image: "alpine",
				Env:   map[string]string{"B": "2", "A": "1"},
			},
			want: []string{"run", "--env", "A=1", "--env", "B=2", "alpine"},
		},
		{
			name: "ports volumes network",
			opts: RunOptions{
				Image:   "nginx",
				Ports:   []string{"8080:80", "8443:443/tcp"},
				Volumes: []string{"/data:/var/www"},
				Network: "backend",
			},
			want: []string{
				"run",
				"--publish", "8080:80",
				"--publish", "8443:443/tcp",
				"--volume", "/data:/var/www",
				"--network", "backend",
				"nginx",
			},
		},
		{
			name: "resources and restart",
			opts: RunOptions{
				Image:   "worker",
				Restart: "unless-stopped",
				Memory:  "512m",
				CPUs:    1.5,
			},
			want: []string{
				"run",
				"--restart", "unless-stopped",
				"--memory", "512m",
				"--cpus", "1.5",
				"worker",
			},
		},
		{
			name: "interactive tty with command",
			opts: RunOptions{
				Image:       "alpine",
				Interactive: true,
				TTY:         true,
				Remove:      true,
				Command:     []string{"sh", "-c", "echo hi"},
			},
			want: []string{
				"run", "--rm", "--interactive", "--tty",
				"alpine", "sh", "-c", "echo hi",
			},
		},
		{
			name: "full trimmings",
			opts: RunOptions{
				Name:       "job",
				User:       "1000:1000",
				Workdir:    "/app",
				Entrypoint: "/bin/init",
				Labels:     map[string]string{"role": "batch"},
				Privileged: true,
				Pull:       "always",
				Image:      "batch:1",
			},
			want: []string{
				"run",
				"--name", "job",
				"--user", "1000:1000",
				"--workdir", "/app",
				"--entrypoint", "/bin/init",
				"--label", "role=batch",
				"--privileged",
				"--pull", "always",
				"batch:1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.args())
		})
	}
}

func TestRunOptionsValidate(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		err := RunOptions{}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image is required")
	})

	t.Run("bad port spec", func(t *testing.T) {
		err := RunOptions{Image: "alpine", Ports: []string{"not-a-port:ok"}}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid port spec")
	})

	t.Run("bad memory limit", func(t *testing.T) {
		err := RunOptions{Image: "alpine", Memory: "lots"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid memory limit")
	})

	t.Run("valid", func(t *testing.T) {
		err := RunOptions{
			Image:  "alpine",
			Ports:  []string{"8080:80/tcp", "127.0.0.1:9000:9000"},
			Memory: "1g",
		}.Validate()
		assert.NoError(t, err)
	})
}

func TestExecOptionsArgs(t *testing.T) {
	opts := ExecOptions{
		Interactive: true,
		TTY:         true,
		User:        "root",
		Env:         map[string]string{"TERM": "xterm"},
		Container:   "db",
		Command:     []string{"psql", "-U", "admin"},
	}
	assert.Equal(t, []string{
		"exec", "--interactive", "--tty", "--user", "root",
		"--env", "TERM=xterm", "db", "psql", "-U", "admin",
	}, opts.args())
}

func TestExecOptionsValidate(t *testing.T) {
	assert.Error(t, ExecOptions{Command: []string{"ls"}}.Validate())
	assert.Error(t, ExecOptions{Container: "db"}.Validate())
	assert.NoError(t, ExecOptions{Container: "db", Command: []string{"ls"}}.Validate())
}

func TestPsOptionsArgs(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, []string{"ps", "--no-trunc", "--format", "{{json .}}"}, PsOptions{}.args())
	})

	t.Run("all flags", func(t *testing.T) {
		opts := PsOptions{
			All:     true,
			Size:    true,
			Limit:   5,
			Filters: []string{"status=running", "label=app=web"},
		}
		assert.Equal(t, []string{
			"ps", "--no-trunc", "--format", "{{json .}}",
			"--all", "--size", "--last", "5",
			"--filter", "status=running",
			"--filter", "label=app=web",
		}, opts.args())
	})
}

func TestLogsOptionsArgs(t *testing.T) {
	opts := LogsOptions{Follow: true, Timestamps: true, Tail: 100, Since: "1h"}
	assert.Equal(t, []string{
		"logs", "--follow", "--timestamps", "--tail", "100", "--since", "1h", "web",
	}, opts.args("web"))
}

func TestStopAndRemoveArgs(t *testing.T) {
	assert.Equal(t, []string{"stop", "--time", "30", "web"}, StopOptions{Timeout: 30}.args("web"))
	assert.Equal(t, []string{"stop", "web"}, StopOptions{}.args("web"))
	assert.Equal(t, []string{"rm", "--force", "--volumes", "web"},
		RemoveOptions{Force: true, Volumes: true}.args("web"))
}

func TestPullOptionsArgs(t *testing.T) {
	assert.Equal(t, []string{"pull", "alpine:3.20"}, PullOptions{}.args("alpine:3.20"))
	assert.Equal(t, []string{"pull", "--quiet", "--platform", "linux/arm64", "alpine"},
		PullOptions{Quiet: true, Platform: "linux/arm64"}.args("alpine"))
}

func TestSwarmArgs(t *testing.T) {
	assert.Equal(t, []string{"swarm", "init"}, SwarmInitOptions{}.args())
	assert.Equal(t, []string{
		"swarm", "init", "--advertise-addr", "10.0.0.1", "--force-new-cluster",
	}, SwarmInitOptions{AdvertiseAddr: "10.0.0.1", ForceNewCluster: true}.args())

	join := SwarmJoinOptions{Token: "tok", Remote: "10.0.0.1:2377"}
	require.NoError(t, join.Validate())
	assert.Equal(t, []string{"swarm", "join", "--token", "tok", "10.0.0.1:2377"}, join.args())

	assert.Error(t, SwarmJoinOptions{Token: "tok"}.Validate())
}
