// Package config handles discovery and loading of dockhand settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file, searched for upward
// from the working directory.
const FileName = ".dockhand.yml"

// EnvBinary overrides the docker binary path when set.
const EnvBinary = "DOCKHAND_BIN"

// Config holds dockhand settings. The binary path is always explicit
// configuration handed to the clients; nothing reads it from a global.
type Config struct {
	// Binary is the docker CLI executable to invoke.
	Binary string `yaml:"binary"`

	// ComposeFile is the compose file used by compose subcommands.
	ComposeFile string `yaml:"compose_file"`

	// Env is appended to the inherited environment for every
	// invocation, e.g. DOCKER_HOST=ssh://host.
	Env []string `yaml:"env"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Binary:      "docker",
		ComposeFile: "docker-compose.yml",
	}
}

// Load returns the configuration for the current directory: defaults,
// overlaid with the nearest .dockhand.yml found walking upward, then
// the DOCKHAND_BIN environment override.
func Load() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return LoadFrom(dir)
}

// LoadFrom is Load starting the upward search at dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	if path, ok := findFile(dir); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if cfg.Binary == "" {
			cfg.Binary = "docker"
		}
		// A relative compose file is relative to the config file.
		if cfg.ComposeFile != "" && !filepath.IsAbs(cfg.ComposeFile) {
			cfg.ComposeFile = filepath.Join(filepath.Dir(path), cfg.ComposeFile)
		}
	}

	if bin := os.Getenv(EnvBinary); bin != "" {
		cfg.Binary = bin
	}

	return cfg, nil
}

// findFile walks upward from dir looking for FileName.
func findFile(dir string) (string, bool) {
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
