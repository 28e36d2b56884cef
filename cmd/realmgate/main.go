// Package main implements the entry point for the RealmGate platform.
// RealmGate is a capability access-control core: a service registry,
// lifecycle coordinator, and policy-enforcing capability gateway.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/realmgate/config"
	"github.com/c360/realmgate/gateway"
	"github.com/c360/realmgate/health"
	"github.com/c360/realmgate/lifecycle"
	"github.com/c360/realmgate/metric"
	"github.com/c360/realmgate/policy"
	"github.com/c360/realmgate/registry"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "realmgate"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := config.NewLoader().Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	policyPath := cfg.Policy.Path
	if cliCfg.PolicyPath != "" {
		policyPath = cliCfg.PolicyPath
	}

	var engine *policy.Engine
	if policyPath != "" {
		engine, err = policy.Load(policyPath)
		if err != nil {
			return fmt.Errorf("load policy: %w", err)
		}
		slog.Info("Policy loaded",
			"path", policyPath,
			"realms", len(engine.Realms()),
			"fail_open", engine.FailOpen())
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid",
			"config", cliCfg.ConfigPath,
			"policy", policyPath)
		return nil
	}

	// One-shot policy query mode
	if cliCfg.Realm != "" {
		return queryPolicy(engine, cliCfg.Realm, cliCfg.Capability)
	}

	return serve(cfg, engine, cliCfg.ShutdownTimeout)
}

// queryPolicy answers a single access question and exits. Denied queries
// exit non-zero so the command composes in scripts.
func queryPolicy(engine *policy.Engine, realm, capability string) error {
	if engine == nil {
		fmt.Println("allow (no policy configured)")
		return nil
	}

	decision := engine.Decide(realm, capability)
	fmt.Println(string(decision))
	if decision == policy.DecisionDeny {
		return fmt.Errorf("realm %q denied capability %q", realm, capability)
	}
	return nil
}

// serve assembles the platform and runs it until a shutdown signal
func serve(cfg *config.Config, engine *policy.Engine, shutdownTimeout time.Duration) error {
	metricsRegistry := metric.NewMetricsRegistry()
	monitor := health.NewMonitor(health.WithMetrics(metricsRegistry))

	reg := registry.New(registry.WithMetrics(metricsRegistry))
	coordinator := lifecycle.NewCoordinator(reg,
		lifecycle.WithMonitor(monitor))

	gwOpts := []gateway.Option{gateway.WithMetrics(metricsRegistry)}
	if engine != nil {
		gwOpts = append(gwOpts, gateway.WithPolicy(engine))
	}
	gw := gateway.New(reg, gwOpts...)

	if cfg.Metrics.Enabled {
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, metricsRegistry)
		if err := reg.Register(registry.Config{
			Name:         "metrics-server",
			Kind:         "infrastructure",
			Endpoint:     registry.LocalEndpoint{Handle: &metricsRunner{server: server}},
			Capabilities: []string{"platform.metrics"},
		}); err != nil {
			return fmt.Errorf("register metrics server: %w", err)
		}
		slog.Info("Metrics endpoint enabled", "address", server.Address())
	}

	// The gateway itself is registered so other components can discover
	// it by capability once they are wired into the same registry.
	if err := reg.Register(registry.Config{
		Name:         "capability-gateway",
		Kind:         "infrastructure",
		Endpoint:     registry.LocalEndpoint{Handle: gw},
		Capabilities: []string{"platform.resolve"},
	}); err != nil {
		return fmt.Errorf("register gateway: %w", err)
	}

	return runWithSignalHandling(coordinator, shutdownTimeout)
}

// runWithSignalHandling starts everything and handles shutdown signals
func runWithSignalHandling(coordinator *lifecycle.Coordinator, shutdownTimeout time.Duration) error {
	signalCtx, signalCancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if err := coordinator.StartAll(signalCtx); err != nil {
		return fmt.Errorf("start registrations: %w", err)
	}
	slog.Info("RealmGate started", "registrations", len(coordinator.Started()))

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	if err := coordinator.StopAll(shutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("RealmGate shutdown complete")
	return nil
}

// metricsRunner adapts the blocking metrics server to the lifecycle
// Runner contract
type metricsRunner struct {
	server *metric.Server
}

func (r *metricsRunner) Start(_ context.Context) error {
	go func() {
		if err := r.server.Start(); err != nil {
			slog.Error("Metrics server error", "error", err)
		}
	}()
	return nil
}

func (r *metricsRunner) Stop(_ time.Duration) error {
	return r.server.Stop()
}
