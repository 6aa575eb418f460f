package executor_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saweima12/minirt/executor"
)

func gathered(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rt := executor.New(executor.WithMetrics(reg))

	for i := 0; i < 3; i++ {
		executor.Spawn(rt, ticks(2, i)).Detach()
	}
	executor.Spawn(rt, forever[int]()).Detach()
	assert.Equal(t, 4.0, gathered(t, reg, "minirt_live_tasks"))

	_, err := executor.BlockOn(testContext(t), rt, ticks(3, 0))
	require.NoError(t, err)

	assert.Equal(t, 4.0, gathered(t, reg, "minirt_tasks_spawned_total"))
	assert.Equal(t, 3.0, gathered(t, reg, "minirt_tasks_completed_total"))
	assert.Equal(t, 2.0, gathered(t, reg, "minirt_drain_passes_total"))
	assert.Equal(t, 8.0, gathered(t, reg, "minirt_polls_total"))
	assert.Equal(t, 4.0, gathered(t, reg, "minirt_queue_depth"))
	assert.Equal(t, 1.0, gathered(t, reg, "minirt_live_tasks"))

	require.NoError(t, rt.Close())
	assert.Zero(t, gathered(t, reg, "minirt_live_tasks"))
}

func TestMetricsPerRuntimeLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() {
		executor.New(executor.WithMetrics(reg))
		executor.New(executor.WithMetrics(reg))
	})
}

func TestNoMetricsIsSafe(t *testing.T) {
	rt := executor.New()
	executor.Spawn(rt, ticks(1, 1)).Detach()
	require.NoError(t, rt.Run(testContext(t)))
	require.NoError(t, rt.Close())
}
