// Package metric provides Prometheus-based metrics collection and an HTTP
// server for RealmGate platform monitoring.
//
// The package offers a centralized metrics registry managing both core
// platform metrics (registry size, lifecycle transitions, gateway access
// decisions) and custom component-specific metrics, plus an HTTP server
// exposing metrics in Prometheus format.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: Platform-level metrics automatically registered (Metrics type)
//  2. Component Registry: Extensible registration for component-specific metrics (MetricsRegistrar interface)
//  3. HTTP Server: Metrics endpoint with health checks (Server type)
//
// # Basic Usage
//
// Setting up metrics collection and HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Printf("Metrics server error: %v", err)
//	    }
//	}()
//
//	// Record core platform metrics
//	coreMetrics := registry.CoreMetrics()
//	coreMetrics.RecordRegistration("capability-provider", 4)
//	coreMetrics.RecordAccessDecision("pillar-content", "file.read", "allow")
//
// The server exposes Prometheus-formatted metrics at
// http://localhost:9090/metrics and a health check at
// http://localhost:9090/health.
//
// # Core Metrics
//
// The registry automatically registers core platform metrics tracking:
//
//   - Registry: registry_entries, registry_registrations_total
//   - Lifecycle: lifecycle_state, lifecycle_transitions_total
//   - Gateway: gateway_access_decisions_total, gateway_resolve_duration_seconds
//   - Health: health_status
//
// All metrics carry the "realmgate" namespace. Go runtime and process
// collectors are registered alongside them.
package metric
