// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/commerce/purchase"
	"github.com/taibuivan/folio/internal/platform/postgres/postgrestest"
)

/*
TestPostgresRepository_Lifecycle runs create, replayed create, approval and the
reports against a real database.
*/
func TestPostgresRepository_Lifecycle(t *testing.T) {
	pool := postgrestest.Pool(t)
	repository := purchase.NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := postgrestest.InsertBook(t, pool, "Pedro Páramo", 1500)
	userID := postgrestest.UniqueUserID()
	reference := fmt.Sprintf("ref-%d", userID)

	created, isNew, err := repository.Create(ctx, userID, bookID, reference)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, purchase.StatusPending, created.Status)
	assert.Nil(t, created.ApprovedAt)

	again, isNew, err := repository.Create(ctx, userID, bookID, reference)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, again.ID)

	allowed, err := repository.HasApproved(ctx, userID, bookID)
	require.NoError(t, err)
	assert.False(t, allowed)

	approvedAt := time.Now().UTC().Truncate(time.Microsecond)
	approved, changed, err := repository.UpdateStatus(ctx, created.ID, purchase.StatusApproved, "pay-1", approvedAt)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, approvedAt.Equal(*approved.ApprovedAt))
	require.NotNil(t, approved.PaymentID)
	assert.Equal(t, "pay-1", *approved.PaymentID)

	_, changed, err = repository.UpdateStatus(ctx, created.ID, purchase.StatusApproved, "pay-1", approvedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)

	late, changed, err := repository.UpdateStatus(ctx, created.ID, purchase.StatusPending, "pay-1", approvedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, purchase.StatusApproved, late.Status)

	allowed, err = repository.HasApproved(ctx, userID, bookID)
	require.NoError(t, err)
	assert.True(t, allowed)

	library, err := repository.ListLibrary(ctx, userID)
	require.NoError(t, err)
	require.Len(t, library, 1)
	assert.Equal(t, "Pedro Páramo", library[0].Title)

	stats, err := repository.SalesStats(ctx, approvedAt.Add(-time.Hour), approvedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.SalesToday, 1)
	assert.GreaterOrEqual(t, stats.RevenueMonth, int64(1500))
	assert.GreaterOrEqual(t, stats.Transactions, 1)

	_, err = repository.FindByReference(ctx, "ref-missing")
	assert.ErrorIs(t, err, purchase.ErrPurchaseNotFound)
}
