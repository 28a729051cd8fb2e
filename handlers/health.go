package handlers

import (
	"sync"

	"mygrid/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GridHealthService is the gRPC health service name that follows fleet readiness. The overall ("") status
// only says the process is up.
const GridHealthService = "mygrid.Grid"

// ReadinessReporter publishes fleet readiness on the gRPC health server. Report is passed to
// service.NewHealthSweep as a sweep callback.
type ReadinessReporter struct {
	server *health.Server
	logger log.Logger

	mu    sync.Mutex
	known bool
	ready bool
}

// NewReadinessReporter marks the process SERVING and the grid NOT_SERVING until the first report.
func NewReadinessReporter(server *health.Server, logger log.Logger) *ReadinessReporter {
	r := &ReadinessReporter{
		server: helpers.NilPanic(server, "handlers.health.go: health server is required"),
		logger: log.With(helpers.NilPanic(logger, "handlers.health.go: logger is required"), "component", "readiness"),
	}
	r.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	r.server.SetServingStatus(GridHealthService, healthpb.HealthCheckResponse_NOT_SERVING)
	return r
}

// Report sets the grid service status. Transitions are logged.
func (r *ReadinessReporter) Report(ready bool) {
	r.mu.Lock()
	changed := !r.known || r.ready != ready
	r.known, r.ready = true, ready
	r.mu.Unlock()

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	r.server.SetServingStatus(GridHealthService, status)
	if changed {
		level.Info(r.logger).Log("msg", "grid readiness changed", "ready", ready)
	}
}

// Server returns the health server to register on a gRPC server.
func (r *ReadinessReporter) Server() *health.Server {
	return r.server
}

// Shutdown marks every service NOT_SERVING.
func (r *ReadinessReporter) Shutdown() {
	r.server.Shutdown()
}
