package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/saweima12/minirt/executor"
)

// Config holds runtime and process settings read from a YAML file.
type Config struct {
	Mode        string        `yaml:"mode"`         // Scheduling mode: busy, parked
	MaxPasses   uint64        `yaml:"max_passes"`   // Drain pass limit per drive, 0 for none
	IdleTimeout time.Duration `yaml:"idle_timeout"` // Parked wait with nothing runnable
	Unit        time.Duration `yaml:"unit"`         // Sleep unit used by the demo commands
	LogLevel    string        `yaml:"log_level"`    // Log level: debug, info, warn, error
	LogFormat   string        `yaml:"log_format"`   // Log format: json, console
	Metrics     bool          `yaml:"metrics"`      // Register runtime metrics
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Mode:      "busy",
		Unit:      100 * time.Millisecond,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := executor.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle_timeout must not be negative, got %s", c.IdleTimeout))
	}
	if c.Unit <= 0 {
		errs = append(errs, fmt.Errorf("unit must be positive, got %s", c.Unit))
	}
	switch c.LogFormat {
	case "json", "console", "text", "":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// RuntimeOptions translates c into executor options. reg is only used when
// metrics are enabled.
func (c Config) RuntimeOptions(log *zap.Logger, reg prometheus.Registerer) ([]executor.Option, error) {
	mode, err := executor.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}

	opts := []executor.Option{
		executor.WithMode(mode),
		executor.WithMaxPasses(c.MaxPasses),
		executor.WithIdleTimeout(c.IdleTimeout),
		executor.WithLogger(log),
	}
	if c.Metrics && reg != nil {
		opts = append(opts, executor.WithMetrics(reg))
	}
	return opts, nil
}
