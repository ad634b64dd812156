// Package config handles ripple.toml runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Find
const FileName = "ripple.toml"

// Trace modes
const (
	TraceStack   = "stack"   // only calls that are still active
	TraceHistory = "history" // every call made during the run
)

// Config represents a ripple.toml configuration.
type Config struct {
	VM     VM     `toml:"vm"`
	Output Output `toml:"output"`

	// Path is the file the configuration was loaded from (empty for defaults).
	Path string `toml:"-"`
}

// VM configures the interpreter.
type VM struct {
	MaxDepth int    `toml:"max-depth"`
	MaxSteps int    `toml:"max-steps"`
	Trace    string `toml:"trace"`
}

// Output configures diagnostics.
type Output struct {
	Color bool `toml:"color"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		VM: VM{
			MaxDepth: 1000,
			MaxSteps: 0,
			Trace:    TraceStack,
		},
		Output: Output{Color: true},
	}
}

// Load parses a configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path = path
	return c, nil
}

// Parse decodes configuration text on top of the defaults and validates it.
func Parse(text string) (*Config, error) {
	c := Default()
	meta, err := toml.Decode(text, c)
	if err != nil {
		return nil, err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks limits and the trace mode
func (c *Config) Validate() error {
	var errs []error
	if c.VM.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("vm.max-depth must not be negative, got %d", c.VM.MaxDepth))
	}
	if c.VM.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("vm.max-steps must not be negative, got %d", c.VM.MaxSteps))
	}
	if c.VM.Trace != TraceStack && c.VM.Trace != TraceHistory {
		errs = append(errs, fmt.Errorf("vm.trace must be %q or %q, got %q", TraceStack, TraceHistory, c.VM.Trace))
	}
	return errors.Join(errs...)
}

// Find walks up from startDir looking for ripple.toml and loads it.
// Returns the defaults if no file is found.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}
