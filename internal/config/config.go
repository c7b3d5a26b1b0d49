// Package config loads the runtime configuration of the assembler: the
// instance table, the member store DSN, logging defaults, and writer
// behavior. Runtime configuration is deliberately separate from the grid
// files, which carry the declarations themselves.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "HAPROXYGEN_CONFIG"

// Config is the runtime configuration. Zero values fall back to built-in
// defaults, so a missing config file is a fully working setup.
type Config struct {
	// Instances maps an instance identifier to the target configuration
	// file it assembles. Instances absent from the table resolve to the
	// built-in path scheme.
	Instances map[string]string `yaml:"instances"`

	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Writer WriterConfig `yaml:"writer"`
}

// StoreConfig selects the member store. An empty DSN keeps the store
// in-process: collection sees only members declared by the current run.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// LogConfig carries the logging defaults; CLI flags override them.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WriterConfig controls how assembled artifacts reach disk.
type WriterConfig struct {
	// Mode is the octal file mode of written artifacts, e.g. "0644".
	Mode string `yaml:"mode"`

	// RequireNonEmpty fails the run when a target file would be assembled
	// with zero fragments.
	RequireNonEmpty bool `yaml:"require_non_empty"`

	// SortOptionsAlphabetic orders each section's options by key instead
	// of declaration order. Defaults to true when unset.
	SortOptionsAlphabetic *bool `yaml:"sort_options_alphabetic"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Writer: WriterConfig{
			Mode: "0644",
		},
	}
}

// Load reads the runtime configuration. An explicit path wins; otherwise
// the HAPROXYGEN_CONFIG environment variable is consulted; with neither,
// the built-in defaults apply. A path that names a missing file is an
// error only when it was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// TargetFile resolves the target configuration file for a declaration: an
// explicit per-declaration override wins, then the instance table, then
// the built-in scheme (the default instance maps to the stock path, a
// named instance to an instance-scoped one).
func (c *Config) TargetFile(instance, override string) string {
	if override != "" {
		return override
	}
	if path, ok := c.Instances[instance]; ok {
		return path
	}
	if instance == "haproxy" {
		return "/etc/haproxy/haproxy.cfg"
	}
	return fmt.Sprintf("/etc/haproxy-%s/haproxy-%s.cfg", instance, instance)
}

// SortAlphabetic reports whether rendered options are ordered by key.
func (c *Config) SortAlphabetic() bool {
	if c.Writer.SortOptionsAlphabetic == nil {
		return true
	}
	return *c.Writer.SortOptionsAlphabetic
}

// FileMode parses the configured artifact file mode.
func (c *Config) FileMode() (os.FileMode, error) {
	mode, err := strconv.ParseUint(c.Writer.Mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid writer mode %q: %w", c.Writer.Mode, err)
	}
	return os.FileMode(mode), nil
}
