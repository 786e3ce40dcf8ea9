// Package main implements the entry point for the flowmesh network
// runtime: it loads a YAML topology document, builds the network it
// describes, and runs it until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/flowmesh/runtime/internal/demo"
	"github.com/flowmesh/runtime/metric"
	"github.com/flowmesh/runtime/pkg/security"
	"github.com/flowmesh/runtime/runtime"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "flowmesh"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := goruntime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	topo, err := loadTopology(cliCfg.TopologyPath)
	if err != nil {
		return fmt.Errorf("load topology: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("topology is valid", "nodes", len(topo.Nodes), "edges", len(topo.Edges))
		return nil
	}

	metricsRegistry, metricsServer, err := setupMetrics(cliCfg)
	if err != nil {
		return fmt.Errorf("setup metrics: %w", err)
	}
	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Warn("metrics server stopped", "error", err)
			}
		}()
		defer func() { _ = metricsServer.Stop() }()
	}

	networkMetrics, err := runtime.NewNetworkMetrics(metricsRegistry)
	if err != nil {
		return fmt.Errorf("create network metrics: %w", err)
	}

	registry := runtime.NewRegistry(runtime.WithLogger(logger), runtime.WithMetrics(networkMetrics))
	registry.Strict(cliCfg.Strict)

	var componentMetrics *metric.Metrics
	if metricsRegistry != nil {
		componentMetrics = metricsRegistry.CoreMetrics()
	}
	demo.Register(registry, componentMetrics)

	ctx := context.Background()
	if err := topo.Apply(ctx, registry); err != nil {
		return fmt.Errorf("apply topology: %w", err)
	}

	return runWithSignalHandling(ctx, registry, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("starting flowmesh",
		"version", Version,
		"build_time", BuildTime,
		"topology_path", cliCfg.TopologyPath)

	return cliCfg, logger, false, nil
}

func loadTopology(path string) (*runtime.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology file: %w", err)
	}
	return runtime.LoadTopology(data)
}

func setupMetrics(cliCfg *CLIConfig) (*metric.MetricsRegistry, *metric.Server, error) {
	if cliCfg.MetricsPort == 0 {
		return nil, nil, nil
	}

	metricsRegistry := metric.NewMetricsRegistry()
	server := metric.NewServer(cliCfg.MetricsPort, "/metrics", metricsRegistry, security.Config{})
	return metricsRegistry, server, nil
}

// runWithSignalHandling starts the network and handles shutdown signals
func runWithSignalHandling(ctx context.Context, registry *runtime.Registry, shutdownTimeout time.Duration) error {
	slog.Debug("setting up signal handling")
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	slog.Info("starting network")
	if err := registry.StartNetwork(signalCtx); err != nil {
		return fmt.Errorf("start network: %w", err)
	}
	slog.Info("flowmesh network started")

	<-signalCtx.Done()
	slog.Info("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := registry.StopNetwork(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("flowmesh shutdown complete")
	return nil
}

// printHelp prints help information
func printHelp() {
	printDetailedHelp()
}
