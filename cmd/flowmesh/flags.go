package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	TopologyPath    string
	LogLevel        string
	LogFormat       string
	Debug           bool
	ShutdownTimeout time.Duration
	MetricsPort     int
	Strict          bool
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.TopologyPath, "topology",
		getEnv("FLOWMESH_TOPOLOGY", "topology.yaml"),
		"Path to the YAML network topology document (env: FLOWMESH_TOPOLOGY)")

	flag.StringVar(&cfg.TopologyPath, "t",
		getEnv("FLOWMESH_TOPOLOGY", "topology.yaml"),
		"Path to the YAML network topology document (env: FLOWMESH_TOPOLOGY)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("FLOWMESH_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: FLOWMESH_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("FLOWMESH_LOG_FORMAT", "json"),
		"Log format: json, text (env: FLOWMESH_LOG_FORMAT)")

	flag.BoolVar(&cfg.Debug, "debug",
		getEnvBool("FLOWMESH_DEBUG", false),
		"Enable debug mode (env: FLOWMESH_DEBUG)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("FLOWMESH_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: FLOWMESH_SHUTDOWN_TIMEOUT)")

	flag.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("FLOWMESH_METRICS_PORT", 9090),
		"Metrics server port, 0 to disable (env: FLOWMESH_METRICS_PORT)")

	flag.BoolVar(&cfg.Strict, "strict",
		getEnvBool("FLOWMESH_STRICT", false),
		"Fail on an edge/initial message naming an unknown node instead of skipping it (env: FLOWMESH_STRICT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate the topology document and exit")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	// Override log level if debug is set
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	// Validate topology file exists
	if _, err := os.Stat(cfg.TopologyPath); err != nil {
		return fmt.Errorf("topology file not found: %s", cfg.TopologyPath)
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	// Validate log format
	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	// Validate metrics port
	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - flow-based-programming network runtime

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run with a topology document
  %s --topology=/path/to/topology.yaml

  # Run with debug logging
  %s --log-level=debug --log-format=text

  # Run with environment variables
  export FLOWMESH_TOPOLOGY=/etc/flowmesh/topology.yaml
  export FLOWMESH_LOG_LEVEL=debug
  %s

  # Validate the topology document only
  %s --validate

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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
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
