package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	PolicyPath      string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	Realm           string
	Capability      string
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("REALMGATE_CONFIG", "configs/realmgate.yaml"),
		"Path to configuration file (env: REALMGATE_CONFIG)")

	flag.StringVar(&cfg.PolicyPath, "policy",
		getEnv("REALMGATE_POLICY", ""),
		"Path to policy file, overrides config (env: REALMGATE_POLICY)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("REALMGATE_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: REALMGATE_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("REALMGATE_LOG_FORMAT", "json"),
		"Log format: json, text (env: REALMGATE_LOG_FORMAT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("REALMGATE_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: REALMGATE_SHUTDOWN_TIMEOUT)")

	flag.StringVar(&cfg.Realm, "realm", "",
		"Caller realm for a one-shot policy query (requires -capability)")

	flag.StringVar(&cfg.Capability, "capability", "",
		"Capability tag for a one-shot policy query (requires -realm)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and policy, then exit")

	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	// Policy queries need both halves
	if (cfg.Realm == "") != (cfg.Capability == "") {
		return fmt.Errorf("-realm and -capability must be given together")
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Capability Access Control

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run the platform with a custom config
  %s --config=/etc/realmgate/config.yaml

  # Validate config and policy without starting anything
  %s --validate

  # One-shot policy query: may pillar-content use file.read?
  %s --realm=pillar-content --capability=file.read

  # Run with environment variables
  export REALMGATE_CONFIG=/etc/realmgate/config.yaml
  export REALMGATE_LOG_LEVEL=debug
  %s

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
