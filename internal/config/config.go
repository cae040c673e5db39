package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version string       `yaml:"version" json:"version"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Source  SourceConfig `yaml:"source" json:"source"`
	UI      UIConfig     `yaml:"ui" json:"ui"`
	Log     LogConfig    `yaml:"log" json:"log"`
}

type ServerConfig struct {
	Addr          string        `yaml:"addr" json:"addr"`
	StaticDir     string        `yaml:"static_dir" json:"static_dir"`
	DevStatic     bool          `yaml:"dev_static" json:"dev_static"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace" json:"shutdown_grace"`
}

type SourceConfig struct {
	// Location is a file path or an http(s) URL.
	Location string `yaml:"location" json:"location"`
	// Timeout bounds the startup fetch. Zero means no deadline.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

type UIConfig struct {
	Title         string        `yaml:"title" json:"title"`
	ClockInterval time.Duration `yaml:"clock_interval" json:"clock_interval"`
}

type LogConfig struct {
	Level    string `yaml:"level" json:"level"`
	Encoding string `yaml:"encoding" json:"encoding"`
}

func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":42069"
	}
	if s.StaticDir == "" {
		s.StaticDir = "static"
	}
	if s.ShutdownGrace == 0 {
		s.ShutdownGrace = 5 * time.Second
	}
}

func (u *UIConfig) ApplyDefaults() {
	if u.Title == "" {
		u.Title = "The Unalterable Ledger"
	}
	if u.ClockInterval == 0 {
		u.ClockInterval = time.Second
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.UI.ApplyDefaults()
	if c.Source.Location == "" {
		c.Source.Location = "data/database.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "json"
	}
}

func (c *Config) Validate() error {
	if c.UI.ClockInterval < 0 {
		return fmt.Errorf("ui.clock_interval must be positive, got %s", c.UI.ClockInterval)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout must not be negative, got %s", c.Source.Timeout)
	}
	switch strings.ToLower(c.Log.Encoding) {
	case "json", "console":
	default:
		return fmt.Errorf("log.encoding must be json or console, got %q", c.Log.Encoding)
	}
	return nil
}

// Default returns a config with every default applied.
func Default() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

// Load reads the YAML file at path. A missing file yields the defaults.
// Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	var r Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	ApplyEnv(&r)
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
