package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not domain-specific)
type Metrics struct {
	// Registry metrics
	RegistryEntries    prometheus.Gauge
	RegistrationsTotal *prometheus.CounterVec

	// Lifecycle metrics
	LifecycleState   *prometheus.GaugeVec
	TransitionsTotal *prometheus.CounterVec

	// Gateway metrics
	AccessDecisions *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec

	// Health metrics
	HealthCheckStatus *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RegistryEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "realmgate",
				Subsystem: "registry",
				Name:      "entries",
				Help:      "Current number of registrations in the service registry",
			},
		),

		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "realmgate",
				Subsystem: "registry",
				Name:      "registrations_total",
				Help:      "Total number of Register calls, including replacements",
			},
			[]string{"kind"},
		),

		LifecycleState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "realmgate",
				Subsystem: "lifecycle",
				Name:      "state",
				Help:      "Lifecycle state (0=registered, 1=starting, 2=running, 3=stopping, 4=stopped, 5=failed)",
			},
			[]string{"registration"},
		),

		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "realmgate",
				Subsystem: "lifecycle",
				Name:      "transitions_total",
				Help:      "Total number of lifecycle state transitions",
			},
			[]string{"registration", "to"},
		),

		AccessDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "realmgate",
				Subsystem: "gateway",
				Name:      "access_decisions_total",
				Help:      "Total number of capability access decisions",
			},
			[]string{"realm", "capability", "decision"},
		),

		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "realmgate",
				Subsystem: "gateway",
				Name:      "resolve_duration_seconds",
				Help:      "Capability resolution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"realm"},
		),

		HealthCheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "realmgate",
				Subsystem: "health",
				Name:      "status",
				Help:      "Health check status (0=unhealthy, 1=healthy)",
			},
			[]string{"registration"},
		),
	}
}

// RecordRegistration increments the registration counter and updates the
// registry size gauge
func (c *Metrics) RecordRegistration(kind string, total int) {
	c.RegistrationsTotal.WithLabelValues(kind).Inc()
	c.RegistryEntries.Set(float64(total))
}

// RecordRegistrySize updates the registry size gauge
func (c *Metrics) RecordRegistrySize(total int) {
	c.RegistryEntries.Set(float64(total))
}

// RecordLifecycleState updates the lifecycle state gauge for a registration
func (c *Metrics) RecordLifecycleState(registration string, state int) {
	c.LifecycleState.WithLabelValues(registration).Set(float64(state))
}

// RecordTransition increments the lifecycle transition counter
func (c *Metrics) RecordTransition(registration, to string) {
	c.TransitionsTotal.WithLabelValues(registration, to).Inc()
}

// RecordAccessDecision increments the gateway decision counter
func (c *Metrics) RecordAccessDecision(realm, capability, decision string) {
	c.AccessDecisions.WithLabelValues(realm, capability, decision).Inc()
}

// RecordResolveDuration records capability resolution time
func (c *Metrics) RecordResolveDuration(realm string, duration time.Duration) {
	c.ResolveDuration.WithLabelValues(realm).Observe(duration.Seconds())
}

// RecordHealthStatus updates health check status
func (c *Metrics) RecordHealthStatus(registration string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.HealthCheckStatus.WithLabelValues(registration).Set(value)
}
