package myredis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v8"
)

// NewRedisUniversalClient creates and configures instance of redis universal client.
func NewRedisUniversalClient(redisAddr string, options ...ConfigOption) (redis.UniversalClient, error) {
	redisOptions, err := redis.ParseURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("cant parse redis url: %w", err)
	}
	for _, opt := range options {
		opt(redisOptions)
	}
	c := redis.NewUniversalClient(universalOptions(redisOptions))
	return c, nil
}

// ConfigOption configures the client.
type ConfigOption func(*redis.Options)

// WithPoolSize sets the connection pool size.
func WithPoolSize(n int) ConfigOption {
	return func(o *redis.Options) {
		if n > 0 {
			o.PoolSize = n
		}
	}
}

func universalOptions(options *redis.Options) *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:              []string{options.Addr},
		DB:                 options.DB,
		Username:           options.Username,
		Password:           options.Password,
		WriteTimeout:       options.WriteTimeout,
		ReadTimeout:        options.ReadTimeout,
		DialTimeout:        options.DialTimeout,
		MaxRetries:         options.MaxRetries,
		PoolSize:           options.PoolSize,
		PoolTimeout:        options.PoolTimeout,
		MinIdleConns:       options.MinIdleConns,
		IdleTimeout:        options.IdleTimeout,
		IdleCheckFrequency: options.IdleCheckFrequency,
	}
}

// PingWithBackoff pings client until it answers, retrying with exponential backoff for at most maxElapsed.
//
// Called from cmd/main before the session map is handed to the distributor, so a grid started alongside its
// Redis does not fail on the first connection refused.
func PingWithBackoff(ctx context.Context, client redis.UniversalClient, maxElapsed time.Duration, logger log.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = maxElapsed
	b.Reset()

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := client.Ping(ctx).Err()
		if err != nil {
			level.Warn(logger).Log("msg", "redis ping failed", "attempt", attempt, "err", err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}
