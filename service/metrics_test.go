package service

import (
	"strings"
	"testing"

	"mygrid/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "service.metrics.go: registerer is required", func() { NewMetrics(nil) })

	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestMetrics_SetNodes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.SetNodes([]domain.NodeSummary{
		{Availability: domain.AvailabilityUp},
		{Availability: domain.AvailabilityUp},
		{Availability: domain.AvailabilityDraining},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.nodes.WithLabelValues("UP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.nodes.WithLabelValues("DRAINING")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.nodes.WithLabelValues("DOWN")))

	m.SetNodes(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.nodes.WithLabelValues("UP")))
}

func TestMetrics_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SetQueueSize(3)
	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()
	m.SessionRequest(OutcomeCreated)
	m.SessionRequest(OutcomeTimedOut)
	m.ProxyFailure("unreachable")

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP grid_active_sessions Sessions currently holding a node slot
# TYPE grid_active_sessions gauge
grid_active_sessions 1
# HELP grid_new_session_requests_total New-session requests by outcome
# TYPE grid_new_session_requests_total counter
grid_new_session_requests_total{outcome="created"} 1
grid_new_session_requests_total{outcome="timed_out"} 1
# HELP grid_proxy_failures_total Forwarded commands that failed in the grid
# TYPE grid_proxy_failures_total counter
grid_proxy_failures_total{reason="unreachable"} 1
# HELP grid_session_queue_size New-session requests waiting in the queue
# TYPE grid_session_queue_size gauge
grid_session_queue_size 3
`), "grid_active_sessions", "grid_new_session_requests_total", "grid_proxy_failures_total", "grid_session_queue_size")
	require.NoError(t, err)
}
