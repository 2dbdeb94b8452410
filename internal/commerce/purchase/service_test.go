// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/commerce/purchase"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
)

const (
	buyer = int64(7)
	book  = int64(42)
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

type fixture struct {
	service   *purchase.Service
	repo      *memoryRepository
	deduper   *memoryDeduper
	publisher *recordingPublisher
}

func newFixture() *fixture {
	repo := newMemoryRepository()
	deduper := newMemoryDeduper()
	publisher := &recordingPublisher{}
	service := purchase.NewService(repo, stubBooks{book: "Rayuela"}, deduper, publisher, discardLogger()).
		WithClock(func() time.Time { return testNow })
	return &fixture{service: service, repo: repo, deduper: deduper, publisher: publisher}
}

func paymentNotification(paymentID, reference string, status purchase.Status) purchase.Notification {
	return purchase.Notification{
		Type: "payment",
		Data: purchase.NotificationData{
			ID:                purchase.GatewayID(paymentID),
			Status:            status,
			ExternalReference: reference,
		},
	}
}

/*
TestService_CreatePurchase covers validation and reference idempotency.
*/
func TestService_CreatePurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("unknown book", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: 999, Reference: "ref-1"})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("same reference returns the stored purchase", func(t *testing.T) {
		f := newFixture()
		input := purchase.CreateInput{BookID: book, Reference: "ref-1"}

		first, created, err := f.service.CreatePurchase(ctx, buyer, input)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, purchase.StatusPending, first.Status)

		second, created, err := f.service.CreatePurchase(ctx, buyer, input)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("reference owned by another user", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-1"})
		require.NoError(t, err)

		_, _, err = f.service.CreatePurchase(ctx, buyer+1, purchase.CreateInput{BookID: book, Reference: "ref-1"})
		assert.ErrorIs(t, err, purchase.ErrReferenceTaken)
	})
}

/*
TestService_ApplyPaymentNotification_Ignored lists notifications acknowledged without effect.
*/
func TestService_ApplyPaymentNotification_Ignored(t *testing.T) {
	tests := []struct {
		name         string
		notification purchase.Notification
		reason       string
	}{
		{
			name:         "merchant order topic",
			notification: purchase.Notification{Topic: "merchant_order", Data: purchase.NotificationData{ID: "1"}},
			reason:       "topic not payment",
		},
		{
			name:         "missing payment id",
			notification: paymentNotification("", "ref-1", purchase.StatusApproved),
			reason:       "no payment id",
		},
		{
			name:         "missing reference",
			notification: paymentNotification("77", "", purchase.StatusApproved),
			reason:       "no external_reference",
		},
		{
			name:         "unknown status",
			notification: paymentNotification("77", "ref-1", "charged_back"),
			reason:       "unknown status",
		},
		{
			name:         "unknown purchase",
			notification: paymentNotification("77", "ref-missing", purchase.StatusApproved),
			reason:       "purchase not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			result, err := f.service.ApplyPaymentNotification(context.Background(), tt.notification)
			require.NoError(t, err)
			assert.Equal(t, "ignored", result.Status)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Zero(t, f.publisher.count())
		})
	}
}

/*
TestService_ApplyPaymentNotification_Approved moves a purchase to approved,
grants access and publishes exactly one event across duplicate deliveries.
*/
func TestService_ApplyPaymentNotification_Approved(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-1"})
	require.NoError(t, err)

	allowed, err := f.service.HasAccess(ctx, buyer, book)
	require.NoError(t, err)
	assert.False(t, allowed)

	result, err := f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, created.ID, result.PurchaseID)
	assert.Equal(t, book, result.BookID)
	assert.Equal(t, purchase.StatusApproved, result.NewStatus)

	allowed, err = f.service.HasAccess(ctx, buyer, book)
	require.NoError(t, err)
	assert.True(t, allowed)

	duplicate, err := f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
	require.NoError(t, err)
	assert.Equal(t, "duplicate delivery", duplicate.Reason)

	require.Equal(t, 1, f.publisher.count())
	assert.Equal(t, constants.SubjectPurchaseApproved, f.publisher.subjects[0])

	var payload purchase.ApprovedEvent
	require.NoError(t, json.Unmarshal(f.publisher.events[0].Data, &payload))
	assert.Equal(t, created.ID, payload.PurchaseID)
	assert.Equal(t, buyer, payload.UserID)
	assert.Equal(t, "77", payload.PaymentID)
	assert.True(t, testNow.Equal(payload.ApprovedAt))
}

/*
TestService_ApplyPaymentNotification_Transitions checks that only approval publishes
and that a repeated status without dedupe does not publish again.
*/
func TestService_ApplyPaymentNotification_Transitions(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	publisher := &recordingPublisher{}
	service := purchase.NewService(repo, stubBooks{book: "Rayuela"}, nil, publisher, discardLogger())

	_, _, err := service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-2"})
	require.NoError(t, err)

	for _, status := range []purchase.Status{purchase.StatusInProcess, purchase.StatusApproved, purchase.StatusApproved} {
		result, err := service.ApplyPaymentNotification(ctx, paymentNotification("88", "ref-2", status))
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
		assert.Equal(t, status, repo.status("ref-2"))
	}
	assert.Equal(t, 1, publisher.count())

	_, err = service.ApplyPaymentNotification(ctx, paymentNotification("88", "ref-2", purchase.StatusRefunded))
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusRefunded, repo.status("ref-2"))
	assert.Equal(t, 1, publisher.count())
}

/*
TestStatus_CanMoveTo checks that approval is only left through a refund or a cancellation.
*/
func TestStatus_CanMoveTo(t *testing.T) {
	tests := []struct {
		from, to purchase.Status
		want     bool
	}{
		{purchase.StatusPending, purchase.StatusApproved, true},
		{purchase.StatusInProcess, purchase.StatusRejected, true},
		{purchase.StatusRejected, purchase.StatusApproved, true},
		{purchase.StatusApproved, purchase.StatusApproved, true},
		{purchase.StatusApproved, purchase.StatusRefunded, true},
		{purchase.StatusApproved, purchase.StatusCancelled, true},
		{purchase.StatusApproved, purchase.StatusPending, false},
		{purchase.StatusApproved, purchase.StatusInProcess, false},
		{purchase.StatusApproved, purchase.StatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanMoveTo(tt.to))
		})
	}
}

/*
TestService_ApplyPaymentNotification_LateStatus keeps an approved purchase approved
when an older pending or in_process delivery arrives afterwards.
*/
func TestService_ApplyPaymentNotification_LateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-1"})
	require.NoError(t, err)

	_, err = f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
	require.NoError(t, err)

	for _, late := range []purchase.Status{purchase.StatusPending, purchase.StatusInProcess} {
		result, err := f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", late))
		require.NoError(t, err)
		assert.Equal(t, "ignored", result.Status)
		assert.Equal(t, "stale status", result.Reason)
		assert.Equal(t, purchase.StatusApproved, f.repo.status("ref-1"))
	}

	allowed, err := f.service.HasAccess(ctx, buyer, book)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, f.publisher.count())
}

/*
TestService_ApplyPaymentNotification_UnknownReferenceResend processes a resend
that arrives once the purchase row exists.
*/
func TestService_ApplyPaymentNotification_UnknownReferenceResend(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	notification := paymentNotification("77", "ref-late", purchase.StatusApproved)

	first, err := f.service.ApplyPaymentNotification(ctx, notification)
	require.NoError(t, err)
	assert.Equal(t, "purchase not found", first.Reason)
	assert.False(t, f.deduper.has(purchase.DeliveryKey("77", purchase.StatusApproved)))

	_, _, err = f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-late"})
	require.NoError(t, err)

	resent, err := f.service.ApplyPaymentNotification(ctx, notification)
	require.NoError(t, err)
	assert.Equal(t, "ok", resent.Status)
	assert.Equal(t, purchase.StatusApproved, f.repo.status("ref-late"))
	assert.True(t, f.deduper.has(purchase.DeliveryKey("77", purchase.StatusApproved)))
}

/*
TestService_ApplyPaymentNotification_Failures covers the degraded paths.
*/
func TestService_ApplyPaymentNotification_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("storage failure releases the claim", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-1"})
		require.NoError(t, err)

		f.repo.updateErr = errBroken
		_, err = f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
		assert.ErrorIs(t, err, errBroken)
		assert.False(t, f.deduper.has(purchase.DeliveryKey("77", purchase.StatusApproved)))

		f.repo.updateErr = nil
		result, err := f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
	})

	t.Run("dedupe store down still processes", func(t *testing.T) {
		f := newFixture()
		f.deduper.claimErr = errBroken
		_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-1"})
		require.NoError(t, err)

		result, err := f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
	})

	t.Run("publish failure does not fail the webhook", func(t *testing.T) {
		f := newFixture()
		f.publisher.err = errBroken
		_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-1"})
		require.NoError(t, err)

		result, err := f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
		assert.Equal(t, purchase.StatusApproved, f.repo.status("ref-1"))
	})
}

func TestService_LibraryAndSales(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, _, err := f.service.CreatePurchase(ctx, buyer, purchase.CreateInput{BookID: book, Reference: "ref-1"})
	require.NoError(t, err)
	_, err = f.service.ApplyPaymentNotification(ctx, paymentNotification("77", "ref-1", purchase.StatusApproved))
	require.NoError(t, err)

	library, err := f.service.ListLibrary(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, library, 1)
	assert.Equal(t, book, library[0].BookID)

	stats, err := f.service.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &purchase.SalesStats{SalesToday: 1, RevenueMonth: 1000, Transactions: 1}, stats)
}

func TestGatewayID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want purchase.GatewayID
	}{
		{name: "string", body: `{"data":{"id":"123"}}`, want: "123"},
		{name: "number", body: `{"data":{"id":123456789012}}`, want: "123456789012"},
		{name: "null", body: `{"data":{"id":null}}`, want: ""},
		{name: "absent", body: `{"data":{}}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var notification purchase.Notification
			require.NoError(t, json.Unmarshal([]byte(tt.body), &notification))
			assert.Equal(t, tt.want, notification.Data.ID)
		})
	}
}
