// Package config loads the optional guython YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "GUYTHON_CONFIG"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds interpreter and CLI settings. Zero numeric limits mean the
// interpreter defaults.
type Config struct {
	MaxIterations int    `yaml:"max_iterations"`
	MaxJumps      int    `yaml:"max_jumps"`
	Debug         bool   `yaml:"debug"`
	Color         string `yaml:"color"`
	HistoryFile   string `yaml:"history_file"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Color: ColorAuto}
}

// DefaultPath returns $XDG_CONFIG_HOME/guython/config.yml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "guython", "config.yml")
}

// Load reads the config at path. An empty path tries GUYTHON_CONFIG and
// then the default location; a missing default file yields the defaults,
// while a missing explicit file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvPath); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath()
		}
	}
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes YAML config from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative, got %d", c.MaxIterations)
	}
	if c.MaxJumps < 0 {
		return fmt.Errorf("max_jumps must not be negative, got %d", c.MaxJumps)
	}
	switch c.Color {
	case "":
		c.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	return nil
}

// History returns the REPL history file, defaulting next to the config.
func (c *Config) History() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	def := DefaultPath()
	if def == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(def), "history")
}
