package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/smesilov-dev/pacemaker/pkg/telemetry"
)

// Config is the top-level configuration for pcmkadmin.
type Config struct {
	// Telemetry configures logging, tracing, and metrics.
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Store configures the operation history status cache.
	Store StoreConfig `yaml:"store" validate:"required"`
}

// StoreConfig configures the SQLite status cache.
type StoreConfig struct {
	// Path is the database file path, or ":memory:" for an ephemeral cache.
	Path string `yaml:"path" validate:"required"`

	// MaxOpenConns limits open database connections.
	MaxOpenConns int `yaml:"max_open_conns" validate:"omitempty,min=1"`

	// MaxIdleConns limits idle database connections.
	MaxIdleConns int `yaml:"max_idle_conns" validate:"omitempty,min=0"`

	// ConnMaxLifetime bounds how long a connection is reused.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Default returns a configuration with defaults applied.
func Default() *Config {
	return &Config{
		Telemetry: telemetry.DefaultConfig(),
		Store: StoreConfig{
			Path:            "pcmkadmin.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}
}

// Load reads a YAML configuration file, applies defaults for anything the
// file leaves unset, and validates the result. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for structural and semantic errors.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}
