package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mygrid/adapters"
	"mygrid/api"
	"mygrid/handlers"
	"mygrid/interfaces"
	"mygrid/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/health"
)

// grid is the wired application: the HTTP surface and the loops running behind it.
type grid struct {
	echo      *echo.Echo
	queue     *service.SessionQueue
	matchLoop *service.MatchLoop
	sweep     *service.HealthSweep
	readiness *handlers.ReadinessReporter
	wg        sync.WaitGroup
}

// newGrid wires every component from config and registers the static nodes.
//
// Parameters: sessionMap: local or Redis-backed; registry: where metrics are registered and gathered from
// for GET /metrics; httpClient: node transport.
//
// Called from main and from the end-to-end tests.
func newGrid(
	ctx context.Context,
	config *Config,
	sessionMap interfaces.SessionMap,
	registry *prometheus.Registry,
	httpClient *http.Client,
	logger log.Logger,
) (*grid, error) {
	timeProvider := service.NewTimeProvider(func() time.Time { return time.Now().UTC() })
	metrics := service.NewMetrics(registry)
	nodeClient := adapters.NodeHTTP(httpClient)

	distributor := service.NewDistributor(nodeClient, sessionMap, timeProvider, metrics, config.Distributor, logger)
	for _, reg := range config.Nodes {
		if err := distributor.Register(ctx, reg); err != nil {
			return nil, fmt.Errorf("register static node %s: %w", reg.ID, err)
		}
	}
	queue := service.NewSessionQueue(config.Queue, distributor.SupportsCapabilities, timeProvider, metrics, logger)
	proxy := service.NewSessionProxy(sessionMap, nodeClient, distributor, config.Router, metrics, logger)
	readiness := handlers.NewReadinessReporter(health.NewServer(), logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	service.RegisterErrorHandler(e, logger)
	validator, err := handlers.OpenAPIValidator(api.GridOpenAPI)
	if err != nil {
		return nil, err
	}
	e.Use(validator)
	handlers.NewRouter(queue, queue, distributor, proxy, logger).
		RegisterRoutes(e, handlers.RegistrationSecret(config.RegistrationSecret))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &grid{
		echo:      e,
		queue:     queue,
		matchLoop: service.NewMatchLoop(queue, distributor, logger),
		sweep:     service.NewHealthSweep(distributor, logger, readiness.Report),
		readiness: readiness,
	}, nil
}

// start runs the match loop and the health sweep until ctx is done.
func (g *grid) start(ctx context.Context) {
	g.wg.Add(2)
	go func() {
		defer g.wg.Done()
		g.matchLoop.Run(ctx)
	}()
	go func() {
		defer g.wg.Done()
		g.sweep.Run(ctx)
	}()
}

// wait blocks until the loops started by start have returned.
func (g *grid) wait() {
	g.wg.Wait()
}
