// Package config loads the reactive CLI configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the configuration file looked up when --config is not set.
	FileName = "reactive.yaml"

	DefaultLogLevel         = "info"
	DefaultMetricsNamespace = "reactive"
	DefaultMetricsAddr      = ":9464"
	DefaultTracerName       = "reactive"
	DefaultTimerDelay       = 10 * time.Millisecond
	DefaultInterval         = 5 * time.Second
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Scenarios ScenariosConfig `yaml:"scenarios"`

	path string
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Observe logs every track, trigger and effect run at debug level.
	Observe bool `yaml:"observe"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	Addr      string `yaml:"addr"`
}

type TracingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TracerName string `yaml:"tracer_name"`
}

type ScenariosConfig struct {
	// TimerDelay is the delay of the timer scheduler scenario.
	TimerDelay time.Duration `yaml:"timer_delay"`
	// Interval is how often `serve` replays the scenarios.
	Interval time.Duration `yaml:"interval"`
}

// New returns a configuration with every default applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path. An empty path loads FileName from the working directory
// and falls back to the defaults when that file does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	c.path = path
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Scenarios.TimerDelay == 0 {
		c.Scenarios.TimerDelay = DefaultTimerDelay
	}
	if c.Scenarios.Interval == 0 {
		c.Scenarios.Interval = DefaultInterval
	}
}

func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if c.Scenarios.TimerDelay < 0 {
		return fmt.Errorf("%w: scenarios.timer_delay must not be negative", ErrInvalid)
	}
	if c.Scenarios.Interval < 0 {
		return fmt.Errorf("%w: scenarios.interval must not be negative", ErrInvalid)
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}
