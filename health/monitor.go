package health

import (
	"sort"
	"sync"
	"time"

	"github.com/c360/realmgate/metric"
)

// Monitor tracks health of multiple registrations in a thread-safe manner
type Monitor struct {
	mu       sync.RWMutex
	statuses map[string]Status
	metrics  *metric.MetricsRegistry
}

// MonitorOption is a functional option for configuring a Monitor
type MonitorOption func(*Monitor)

// WithMetrics sets the metrics registry used to mirror health changes
func WithMetrics(metrics *metric.MetricsRegistry) MonitorOption {
	return func(m *Monitor) {
		m.metrics = metrics
	}
}

// NewMonitor creates a new health monitor
func NewMonitor(opts ...MonitorOption) *Monitor {
	m := &Monitor{
		statuses: make(map[string]Status),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Update updates the health status for a named registration
func (m *Monitor) Update(name string, status Status) {
	m.mu.Lock()

	// Ensure the status has the correct component name and timestamp
	status.Component = name
	if status.Timestamp.IsZero() {
		status.Timestamp = time.Now()
	}

	m.statuses[name] = status
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.CoreMetrics().RecordHealthStatus(name, status.IsHealthy())
	}
}

// UpdateHealthy is a convenience method to update a registration as healthy
func (m *Monitor) UpdateHealthy(name, message string) {
	m.Update(name, NewHealthy(name, message))
}

// UpdateUnhealthy is a convenience method to update a registration as unhealthy
func (m *Monitor) UpdateUnhealthy(name, message string) {
	m.Update(name, NewUnhealthy(name, message))
}

// UpdateDegraded is a convenience method to update a registration as degraded
func (m *Monitor) UpdateDegraded(name, message string) {
	m.Update(name, NewDegraded(name, message))
}

// Get retrieves the health status for a named registration
func (m *Monitor) Get(name string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, exists := m.statuses[name]
	return status, exists
}

// GetAll returns a copy of all current health statuses
func (m *Monitor) GetAll() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]Status, len(m.statuses))
	for name, status := range m.statuses {
		result[name] = status
	}
	return result
}

// Remove removes a registration from monitoring
func (m *Monitor) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.statuses, name)
}

// Count returns the number of tracked registrations
func (m *Monitor) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.statuses)
}

// AggregateHealth returns an aggregated health status for the platform.
// Sub-statuses are ordered by name so reports are stable.
func (m *Monitor) AggregateHealth(systemName string) Status {
	m.mu.RLock()
	names := make([]string, 0, len(m.statuses))
	for name := range m.statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	subStatuses := make([]Status, 0, len(names))
	for _, name := range names {
		subStatuses = append(subStatuses, m.statuses[name])
	}
	m.mu.RUnlock()

	return Aggregate(systemName, subStatuses)
}
