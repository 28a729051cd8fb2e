package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mygrid/adapters/myredis"
	"mygrid/interfaces"
	"mygrid/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// redisConnectTimeout bounds the startup retries against Redis.
const redisConnectTimeout = 30 * time.Second

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting mygrid")

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"service_port_grpc", config.GRPCPort,
		"config_path", config.ConfigPath,
		"redis_addr", config.RedisAddr,
		"session_request_timeout", config.Queue.RequestTimeout,
		"session_retry_interval", config.Queue.RetryInterval,
		"static_nodes", len(config.Nodes),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sessionMap interfaces.SessionMap
	{
		if config.RedisAddr == "" {
			sessionMap = service.NewLocalSessionMap()
			level.Info(logger).Log("msg", "Using in-memory session map")
		} else {
			redisClient, err := myredis.NewRedisUniversalClient(config.RedisAddr)
			if err != nil {
				level.Error(logger).Log("msg", "Failed to create Redis client", "err", err)
				os.Exit(1)
			}
			if err := myredis.PingWithBackoff(ctx, redisClient, redisConnectTimeout, logger); err != nil {
				level.Error(logger).Log("msg", "Failed to connect to Redis", "err", err)
				os.Exit(1)
			}
			level.Info(logger).Log("msg", "Connected to Redis")
			sessionMap = myredis.NewSessionMap(redisClient, myredis.DefaultSessionPrefix)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	g, err := newGrid(ctx, config, sessionMap, registry, &http.Client{}, logger)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to build grid", "err", err)
		os.Exit(1)
	}
	g.start(ctx)

	var grpcServer *grpc.Server
	if config.GRPCPort != 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.GRPCPort))
		if err != nil {
			level.Error(logger).Log("msg", "Failed to listen", "err", err)
			os.Exit(1)
		}
		grpcServer = grpc.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, g.readiness.Server())
		go func() {
			level.Info(logger).Log("msg", "Starting gRPC health server", "addr", lis.Addr())
			if err := grpcServer.Serve(lis); err != nil {
				level.Error(logger).Log("msg", "gRPC server error", "err", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := g.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	<-quit
	level.Info(logger).Log("msg", "Shutting down...")

	g.readiness.Shutdown()
	if n := g.queue.Clear(); n > 0 {
		level.Info(logger).Log("msg", "Cancelled pending new session requests", "requests", n)
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := g.echo.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	cancel()
	g.wait()
	level.Info(logger).Log("msg", "Server stopped")
}
