// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client for volatile data storage.

Folio keeps only short-lived markers here, most notably the payment webhook
deduplication keys. Nothing stored in Redis is a source of truth: losing the
whole keyspace only re-opens the dedupe window.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL (redis:// or rediss://).
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = 8
	options.MinIdleConns = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// ClaimOnce atomically records key for ttl.
//
// It returns true the first time a key is claimed and false while the key is
// still alive, which makes it suitable for at-most-once processing markers.
func ClaimOnce(context stdctx.Context, client redis.UniversalClient, key string, ttl time.Duration) (bool, error) {
	claimed, err := client.SetNX(context, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: claim %q: %w", key, err)
	}
	return claimed, nil
}

// Release removes a claim so the work it guarded can be retried.
func Release(context stdctx.Context, client redis.UniversalClient, key string) error {
	if err := client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis: release %q: %w", key, err)
	}
	return nil
}
