// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/commerce/purchase"
	"github.com/taibuivan/folio/internal/platform/redis"
)

func TestDeliveryKey(t *testing.T) {
	assert.Equal(t, "payment:webhook:77:approved", purchase.DeliveryKey("77", purchase.StatusApproved))
}

/*
TestRedisDeduper claims, re-claims and releases a key on a live Redis.
Set FOLIO_TEST_REDIS_URL to run it.
*/
func TestRedisDeduper(t *testing.T) {
	url := os.Getenv("FOLIO_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FOLIO_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, url, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	deduper := purchase.NewRedisDeduper(client, time.Minute)
	key := purchase.DeliveryKey(strconv.FormatInt(time.Now().UnixNano(), 10), purchase.StatusApproved)
	t.Cleanup(func() { _ = deduper.Release(ctx, key) })

	claimed, err := deduper.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = deduper.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, deduper.Release(ctx, key))

	claimed, err = deduper.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, claimed)
}
