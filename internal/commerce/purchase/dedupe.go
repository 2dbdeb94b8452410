// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/redis"
)

// RedisDeduper implements [Deduper] with SETNX markers.
type RedisDeduper struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewRedisDeduper constructs a new [RedisDeduper].
func NewRedisDeduper(client goredis.UniversalClient, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (deduper *RedisDeduper) Claim(ctx context.Context, key string) (bool, error) {
	return redis.ClaimOnce(ctx, deduper.client, key, deduper.ttl)
}

func (deduper *RedisDeduper) Release(ctx context.Context, key string) error {
	return redis.Release(ctx, deduper.client, key)
}

// DeliveryKey identifies one gateway delivery of a payment status.
func DeliveryKey(paymentID string, status Status) string {
	return constants.RedisPrefixPaymentWebhook + paymentID + ":" + string(status)
}
