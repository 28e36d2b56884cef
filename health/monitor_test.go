package health

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/realmgate/metric"
)

func TestMonitorUpdateAndGet(t *testing.T) {
	monitor := NewMonitor()

	monitor.UpdateHealthy("file-store", "running")
	monitor.UpdateDegraded("session-manager", "slow start")

	status, exists := monitor.Get("file-store")
	require.True(t, exists)
	assert.True(t, status.IsHealthy())
	assert.False(t, status.Timestamp.IsZero())

	_, exists = monitor.Get("ghost")
	assert.False(t, exists)

	assert.Equal(t, 2, monitor.Count())
}

func TestMonitorCorrectsComponentName(t *testing.T) {
	monitor := NewMonitor()

	monitor.Update("correct-name", Status{
		Component: "wrong-name",
		Status:    "healthy",
	})

	status, exists := monitor.Get("correct-name")
	require.True(t, exists)
	assert.Equal(t, "correct-name", status.Component)
}

func TestMonitorGetAllReturnsCopy(t *testing.T) {
	monitor := NewMonitor()
	monitor.UpdateHealthy("file-store", "running")

	all := monitor.GetAll()
	all["injected"] = NewHealthy("injected", "fake")

	assert.Equal(t, 1, monitor.Count())
}

func TestMonitorRemove(t *testing.T) {
	monitor := NewMonitor()
	monitor.UpdateHealthy("file-store", "running")

	monitor.Remove("file-store")
	_, exists := monitor.Get("file-store")
	assert.False(t, exists)

	monitor.Remove("never-there")
}

func TestMonitorAggregateHealth(t *testing.T) {
	monitor := NewMonitor()
	monitor.UpdateHealthy("alpha", "ok")
	monitor.UpdateUnhealthy("beta", "down")
	monitor.UpdateDegraded("gamma", "slow")

	agg := monitor.AggregateHealth("platform")
	assert.True(t, agg.IsUnhealthy())
	require.Len(t, agg.SubStatuses, 3)

	// Sub-statuses come back sorted by name.
	assert.Equal(t, "alpha", agg.SubStatuses[0].Component)
	assert.Equal(t, "beta", agg.SubStatuses[1].Component)
	assert.Equal(t, "gamma", agg.SubStatuses[2].Component)
}

func TestMonitorConcurrentUpdates(t *testing.T) {
	monitor := NewMonitor(WithMetrics(metric.NewMetricsRegistry()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			monitor.UpdateHealthy("file-store", "running")
		}()
		go func() {
			defer wg.Done()
			_, _ = monitor.Get("file-store")
			_ = monitor.AggregateHealth("platform")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, monitor.Count())
}
