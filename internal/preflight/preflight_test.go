//go:build !windows

package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBinary(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		check := CheckBinary("sh")
		assert.True(t, check.OK)
		assert.NotEmpty(t, check.Detail)
	})

	t.Run("missing", func(t *testing.T) {
		check := CheckBinary("definitely-not-a-real-binary-xyz")
		assert.False(t, check.OK)
		assert.Contains(t, check.Detail, "not found")
	})
}

// stub writes a fake docker binary whose behavior the test controls.
func stub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestCheckDaemon(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		check := CheckDaemon(context.Background(), stub(t, "echo 27.0.1"))
		assert.True(t, check.OK)
		assert.Equal(t, "27.0.1", check.Detail)
	})

	t.Run("unreachable", func(t *testing.T) {
		check := CheckDaemon(context.Background(), stub(t, "echo 'Cannot connect' 1>&2; exit 1"))
		assert.False(t, check.OK)
	})

	t.Run("binary missing", func(t *testing.T) {
		check := CheckDaemon(context.Background(), "/nonexistent/docker")
		assert.False(t, check.OK)
	})
}

func TestCheckCompose(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		check := CheckCompose(context.Background(), stub(t, "echo 2.27.0"))
		assert.True(t, check.OK)
	})

	t.Run("missing plugin", func(t *testing.T) {
		check := CheckCompose(context.Background(), stub(t, "exit 125"))
		assert.False(t, check.OK)
		assert.Contains(t, check.Detail, "compose")
	})
}

func TestAll(t *testing.T) {
	t.Run("missing binary short-circuits", func(t *testing.T) {
		checks := All(context.Background(), "definitely-not-a-real-binary-xyz")
		require.Len(t, checks, 1)
		assert.False(t, checks[0].OK)
	})

	t.Run("all probes run", func(t *testing.T) {
		checks := All(context.Background(), stub(t, "echo ok"))
		require.Len(t, checks, 3)
		for _, c := range checks {
			assert.True(t, c.OK, c.Name)
		}
	})
}
