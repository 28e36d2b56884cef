package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/realmgate/errors"
)

// DefaultEnvPrefix is the prefix for environment variable overrides
const DefaultEnvPrefix = "REALMGATE"

// Config represents the complete platform configuration
type Config struct {
	Version  string         `yaml:"version"` // Semantic version (e.g., "1.0.0")
	Platform PlatformConfig `yaml:"platform"`
	Policy   PolicyConfig   `yaml:"policy"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PlatformConfig defines platform identity
type PlatformConfig struct {
	Name        string `yaml:"name"`                  // Platform identifier (e.g., "realmgate-dev")
	Environment string `yaml:"environment,omitempty"` // "prod", "dev", "test"
}

// PolicyConfig points at the capability policy document
type PolicyConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig controls the Prometheus metrics endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Loader loads configuration from a file with environment overrides
type Loader struct {
	envPrefix string
}

// NewLoader creates a config loader with the default env prefix
func NewLoader() *Loader {
	return &Loader{envPrefix: DefaultEnvPrefix}
}

// NewLoaderWithPrefix creates a config loader with a custom env prefix
func NewLoaderWithPrefix(prefix string) *Loader {
	return &Loader{envPrefix: prefix}
}

// Load reads, parses, and validates a config file. Environment variables
// override file values after parsing.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapFatal(
				fmt.Errorf("config file %s: %w", path, errors.ErrConfigNotFound),
				"config", "Load", "file read")
		}
		return nil, errors.WrapFatal(err, "config", "Load", "file read")
	}
	return l.Parse(data)
}

// Parse builds a config from raw YAML, applying defaults, environment
// overrides, and validation
func (l *Loader) Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Parse", "yaml decode")
	}

	l.applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with sane defaults for local development
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Platform: PlatformConfig{
			Name:        "realmgate",
			Environment: "dev",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// applyEnvOverrides applies environment variable overrides
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(l.envPrefix + "_PLATFORM_NAME"); val != "" {
		cfg.Platform.Name = val
	}
	if val := os.Getenv(l.envPrefix + "_PLATFORM_ENVIRONMENT"); val != "" {
		cfg.Platform.Environment = val
	}
	if val := os.Getenv(l.envPrefix + "_POLICY_PATH"); val != "" {
		cfg.Policy.Path = val
	}
	if val := os.Getenv(l.envPrefix + "_METRICS_ENABLED"); val != "" {
		cfg.Metrics.Enabled = strings.EqualFold(val, "true") || val == "1"
	}
	if val := os.Getenv(l.envPrefix + "_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Metrics.Port = port
		}
	}
}

// applyDefaults fills in zero values that have platform defaults
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	if c.Platform.Name == "" {
		c.Platform.Name = "realmgate"
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Platform.Name == "" {
		return errors.WrapInvalid(
			fmt.Errorf("platform.name is required: %w", errors.ErrMissingConfig),
			"Config", "Validate", "platform check")
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return errors.WrapInvalid(
			fmt.Errorf("metrics.port %d out of range: %w",
				c.Metrics.Port, errors.ErrInvalidConfig),
			"Config", "Validate", "metrics check")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.WrapInvalid(
			fmt.Errorf("metrics.path %q must start with /: %w",
				c.Metrics.Path, errors.ErrInvalidConfig),
			"Config", "Validate", "metrics check")
	}
	return nil
}
