package service

import (
	"mygrid/domain"
	"mygrid/helpers"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a new-session request, used as the "outcome" label.
const (
	OutcomeCreated   = "created"
	OutcomeTimedOut  = "timed_out"
	OutcomeCancelled = "cancelled"
	OutcomeRejected  = "rejected"
)

// Metrics holds the grid's Prometheus collectors. Registered once per registry in NewMetrics.
type Metrics struct {
	queueSize         prometheus.Gauge
	activeSessions    prometheus.Gauge
	nodes             *prometheus.GaugeVec
	sessionRequests   *prometheus.CounterVec
	proxyFailures     *prometheus.CounterVec
	healthChecks      *prometheus.CounterVec
	wastedSessions    prometheus.Counter
	capacityAnomalies prometheus.Counter
}

// NewMetrics creates and registers the grid collectors on reg. Panics on nil reg or duplicate registration.
//
// Called from cmd/main with prometheus.DefaultRegisterer; tests pass prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	helpers.NilPanic(reg, "service.metrics.go: registerer is required")
	m := &Metrics{
		queueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "grid_session_queue_size",
			Help: "New-session requests waiting in the queue",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "grid_active_sessions",
			Help: "Sessions currently holding a node slot",
		}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "grid_nodes",
			Help: "Registered nodes by availability",
		}, []string{"availability"}),
		sessionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grid_new_session_requests_total",
			Help: "New-session requests by outcome",
		}, []string{"outcome"}), // created|timed_out|cancelled|rejected
		proxyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grid_proxy_failures_total",
			Help: "Forwarded commands that failed in the grid",
		}, []string{"reason"}), // unreachable|translation
		healthChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grid_node_health_checks_total",
			Help: "Node health checks by result",
		}, []string{"result"}),
		wastedSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grid_wasted_sessions_total",
			Help: "Sessions created after their request was already resolved, then stopped",
		}),
		capacityAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grid_capacity_accounting_errors_total",
			Help: "Slot releases that would have made a load negative",
		}),
	}
	reg.MustRegister(m.queueSize, m.activeSessions, m.nodes, m.sessionRequests, m.proxyFailures,
		m.healthChecks, m.wastedSessions, m.capacityAnomalies)
	return m
}

func (m *Metrics) SetQueueSize(n int) { m.queueSize.Set(float64(n)) }

func (m *Metrics) SessionStarted() { m.activeSessions.Inc() }

func (m *Metrics) SessionEnded() { m.activeSessions.Dec() }

func (m *Metrics) SessionRequest(outcome string) { m.sessionRequests.WithLabelValues(outcome).Inc() }

func (m *Metrics) ProxyFailure(reason string) { m.proxyFailures.WithLabelValues(reason).Inc() }

func (m *Metrics) HealthCheck(ok bool) {
	if ok {
		m.healthChecks.WithLabelValues("ok").Inc()
		return
	}
	m.healthChecks.WithLabelValues("failed").Inc()
}

func (m *Metrics) WastedSession() { m.wastedSessions.Inc() }

func (m *Metrics) CapacityAnomaly() { m.capacityAnomalies.Inc() }

// SetNodes publishes the node count per availability from a registry snapshot.
func (m *Metrics) SetNodes(nodes []domain.NodeSummary) {
	counts := map[domain.Availability]int{
		domain.AvailabilityUp:       0,
		domain.AvailabilityDown:     0,
		domain.AvailabilityDraining: 0,
	}
	for _, n := range nodes {
		counts[n.Availability]++
	}
	for a, c := range counts {
		m.nodes.WithLabelValues(string(a)).Set(float64(c))
	}
}
