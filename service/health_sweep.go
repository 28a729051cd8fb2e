package service

import (
	"context"
	"time"

	"mygrid/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// HealthSweep checks every registered node on a fixed interval, independently of request traffic.
// Nodes are checked in parallel (bounded); a slow or failing node never delays the others beyond its own
// check timeout.
type HealthSweep struct {
	distributor *Distributor
	interval    time.Duration
	parallel    int
	onSweep     []func(ready bool)
	logger      log.Logger
}

// NewHealthSweep creates a sweep over distributor's nodes. onSweep callbacks receive the fleet readiness
// after every sweep (the gRPC readiness reporter subscribes here). Panics on nil distributor or logger.
func NewHealthSweep(distributor *Distributor, logger log.Logger, onSweep ...func(ready bool)) *HealthSweep {
	d := helpers.NilPanic(distributor, "service.health_sweep.go: distributor is required")
	return &HealthSweep{
		distributor: d,
		interval:    d.opts.HealthCheckInterval,
		parallel:    d.opts.MaxParallelHealthChecks,
		onSweep:     onSweep,
		logger:      log.With(helpers.NilPanic(logger, "service.health_sweep.go: logger is required"), "component", "health_sweep"),
	}
}

// Run sweeps every interval until ctx is done.
//
// Called from cmd/main in its own goroutine.
func (h *HealthSweep) Run(ctx context.Context) {
	level.Info(h.logger).Log("msg", "health sweep started", "interval", h.interval)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			level.Info(h.logger).Log("msg", "health sweep stopped")
			return
		case <-ticker.C:
			h.Sweep(ctx)
		}
	}
}

// Sweep checks all nodes once and then reports readiness to the subscribers.
func (h *HealthSweep) Sweep(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(h.parallel)
	for _, node := range h.distributor.Nodes() {
		node := node
		g.Go(func() error {
			h.distributor.CheckNode(ctx, node)
			return nil
		})
	}
	_ = g.Wait()

	ready := h.distributor.IsReady()
	for _, f := range h.onSweep {
		f(ready)
	}
}
