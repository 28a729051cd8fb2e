package domain

import "time"

const (
	DefaultSessionRequestTimeout   = 10 * time.Second
	DefaultSessionRetryInterval    = 5 * time.Second
	DefaultHealthCheckInterval     = 10 * time.Second
	DefaultHealthCheckTimeout      = 5 * time.Second
	DefaultUnhealthyThreshold      = 3
	DefaultEvictionThreshold       = 10
	DefaultMaxParallelHealthChecks = 8
	DefaultProxyTimeout            = 180 * time.Second
)

// QueueOptions configures the new-session queue.
type QueueOptions struct {
	RequestTimeout time.Duration
	RetryInterval  time.Duration
	// RejectUnsupported fails a request at once when no registered node advertises a matching stereotype.
	RejectUnsupported bool
}

// NewQueueOptions builds QueueOptions from seconds; values ≤ 0 fall back to the defaults (10s and 5s).
func NewQueueOptions(timeoutSeconds, retrySeconds int, rejectUnsupported bool) QueueOptions {
	return QueueOptions{
		RequestTimeout:    secondsOr(timeoutSeconds, DefaultSessionRequestTimeout),
		RetryInterval:     secondsOr(retrySeconds, DefaultSessionRetryInterval),
		RejectUnsupported: rejectUnsupported,
	}
}

// Normalize replaces non-positive durations with the defaults. Used for options built in code (tests).
func (o QueueOptions) Normalize() QueueOptions {
	o.RequestTimeout = durationOr(o.RequestTimeout, DefaultSessionRequestTimeout)
	o.RetryInterval = durationOr(o.RetryInterval, DefaultSessionRetryInterval)
	return o
}

// DistributorOptions configures health checking and node eviction.
type DistributorOptions struct {
	HealthCheckInterval     time.Duration
	HealthCheckTimeout      time.Duration
	UnhealthyThreshold      int
	EvictionThreshold       int
	MaxParallelHealthChecks int
}

// NewDistributorOptions builds DistributorOptions from milliseconds and counts; values ≤ 0 fall back to defaults.
// EvictionThreshold is raised to UnhealthyThreshold if configured lower.
func NewDistributorOptions(intervalMs, timeoutMs, unhealthy, eviction, parallel int) DistributorOptions {
	return DistributorOptions{
		HealthCheckInterval:     millisOr(intervalMs, DefaultHealthCheckInterval),
		HealthCheckTimeout:      millisOr(timeoutMs, DefaultHealthCheckTimeout),
		UnhealthyThreshold:      unhealthy,
		EvictionThreshold:       eviction,
		MaxParallelHealthChecks: parallel,
	}.Normalize()
}

func (o DistributorOptions) Normalize() DistributorOptions {
	o.HealthCheckInterval = durationOr(o.HealthCheckInterval, DefaultHealthCheckInterval)
	o.HealthCheckTimeout = durationOr(o.HealthCheckTimeout, DefaultHealthCheckTimeout)
	o.UnhealthyThreshold = intOr(o.UnhealthyThreshold, DefaultUnhealthyThreshold)
	o.EvictionThreshold = intOr(o.EvictionThreshold, DefaultEvictionThreshold)
	if o.EvictionThreshold < o.UnhealthyThreshold {
		o.EvictionThreshold = o.UnhealthyThreshold
	}
	o.MaxParallelHealthChecks = intOr(o.MaxParallelHealthChecks, DefaultMaxParallelHealthChecks)
	return o
}

// RouterOptions configures command forwarding.
type RouterOptions struct {
	ProxyTimeout time.Duration
}

// NewRouterOptions builds RouterOptions; proxyTimeoutMs ≤ 0 falls back to 180s.
func NewRouterOptions(proxyTimeoutMs int) RouterOptions {
	return RouterOptions{ProxyTimeout: millisOr(proxyTimeoutMs, DefaultProxyTimeout)}
}

func secondsOr(v int, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}

func millisOr(v int, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return time.Duration(v) * time.Millisecond
}

func durationOr(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
