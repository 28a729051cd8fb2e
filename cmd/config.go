package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mygrid/domain"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envHTTPPort           = "SERVICE_PORT_HTTP"
	envGRPCPort           = "SERVICE_PORT_GRPC"
	envConfigPath         = "CONFIG_PATH"
	envRedisAddr          = "REDIS_ADDR"
	envRegistrationSecret = "REGISTRATION_SECRET"
)

// Config holds the grid configuration loaded by LoadConfig. GRPCPort 0 disables the gRPC health endpoint;
// empty RedisAddr keeps the session map in memory; empty RegistrationSecret leaves node administration open.
type Config struct {
	HTTPPort           int
	GRPCPort           int
	RedisAddr          string
	RegistrationSecret string
	ConfigPath         string
	Queue              domain.QueueOptions
	Distributor        domain.DistributorOptions
	Router             domain.RouterOptions
	Nodes              []domain.NodeRegistration
}

type yamlConfig struct {
	SessionQueue yamlSessionQueue `yaml:"sessionqueue"`
	Distributor  yamlDistributor  `yaml:"distributor"`
	Router       yamlRouter       `yaml:"router"`
	Nodes        []yamlNode       `yaml:"nodes"`
}

type yamlSessionQueue struct {
	SessionRequestTimeout int  `yaml:"session_request_timeout"`
	SessionRetryInterval  int  `yaml:"session_retry_interval"`
	RejectUnsupportedCaps bool `yaml:"reject_unsupported_caps"`
}

type yamlDistributor struct {
	HealthCheckIntervalMs   int `yaml:"health_check_interval_ms"`
	HealthCheckTimeoutMs    int `yaml:"health_check_timeout_ms"`
	UnhealthyThreshold      int `yaml:"unhealthy_threshold"`
	EvictionThreshold       int `yaml:"eviction_threshold"`
	MaxParallelHealthChecks int `yaml:"max_parallel_health_checks"`
}

type yamlRouter struct {
	ProxyTimeoutMs int `yaml:"proxy_timeout_ms"`
}

type yamlNode struct {
	ID          string           `yaml:"id"`
	ExternalURI string           `yaml:"external_uri"`
	InternalURI string           `yaml:"internal_uri"`
	Stereotypes []yamlStereotype `yaml:"stereotypes"`
}

type yamlStereotype struct {
	Capabilities map[string]any `yaml:"capabilities"`
	MaxSessions  int            `yaml:"max_sessions"`
}

// loadYAMLConfig reads and unmarshals the YAML file at path. Unknown keys are errors; an empty file is
// an empty config.
func loadYAMLConfig(path string) (*yamlConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out yamlConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &out, nil
}

// LoadConfig builds the grid config from environment variables and the optional YAML file at CONFIG_PATH.
// SERVICE_PORT_HTTP is required (1-65535); SERVICE_PORT_GRPC is optional but must be a valid port when set.
// Non-positive durations and counts in YAML fall back to defaults (see domain.New*Options). Static nodes are
// validated with domain.ValidateNodeRegistration.
//
// Called only from main at startup.
func LoadConfig() (*Config, error) {
	httpPort, err := parsePort(envHTTPPort, true)
	if err != nil {
		return nil, err
	}
	grpcPort, err := parsePort(envGRPCPort, false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:           httpPort,
		GRPCPort:           grpcPort,
		RedisAddr:          strings.TrimSpace(os.Getenv(envRedisAddr)),
		RegistrationSecret: os.Getenv(envRegistrationSecret),
	}

	raw := &yamlConfig{}
	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, absErr := filepath.Abs(configPath)
			if absErr != nil {
				return nil, absErr
			}
			configPath = abs
		}
		raw, err = loadYAMLConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		cfg.ConfigPath = configPath
	}

	cfg.Queue = domain.NewQueueOptions(
		raw.SessionQueue.SessionRequestTimeout,
		raw.SessionQueue.SessionRetryInterval,
		raw.SessionQueue.RejectUnsupportedCaps,
	)
	cfg.Distributor = domain.NewDistributorOptions(
		raw.Distributor.HealthCheckIntervalMs,
		raw.Distributor.HealthCheckTimeoutMs,
		raw.Distributor.UnhealthyThreshold,
		raw.Distributor.EvictionThreshold,
		raw.Distributor.MaxParallelHealthChecks,
	)
	cfg.Router = domain.NewRouterOptions(raw.Router.ProxyTimeoutMs)

	cfg.Nodes, err = toNodeRegistrations(raw.Nodes)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func parsePort(name string, required bool) (int, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		if required {
			return 0, fmt.Errorf("%s is required", name)
		}
		return 0, nil
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be 1-65535, got %d", name, port)
	}
	return port, nil
}

func toNodeRegistrations(nodes []yamlNode) ([]domain.NodeRegistration, error) {
	out := make([]domain.NodeRegistration, 0, len(nodes))
	seen := make(map[uuid.UUID]bool, len(nodes))
	for i, n := range nodes {
		id, err := uuid.Parse(n.ID)
		if err != nil {
			return nil, fmt.Errorf("nodes[%d].id: %w", i, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("nodes[%d].id: duplicate node id %s", i, id)
		}
		seen[id] = true

		reg := domain.NodeRegistration{
			ID:          id,
			ExternalURI: n.ExternalURI,
			InternalURI: n.InternalURI,
			Stereotypes: make([]domain.Stereotype, 0, len(n.Stereotypes)),
		}
		for _, st := range n.Stereotypes {
			caps := domain.Capabilities(st.Capabilities)
			if caps == nil {
				caps = domain.Capabilities{}
			}
			reg.Stereotypes = append(reg.Stereotypes, domain.Stereotype{Capabilities: caps, MaxSessions: st.MaxSessions})
		}
		if err := domain.ValidateNodeRegistration(reg); err != nil {
			return nil, fmt.Errorf("nodes[%d]: %w", i, err)
		}
		out = append(out, reg)
	}
	return out, nil
}
