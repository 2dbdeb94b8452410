// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/events"
	"github.com/taibuivan/folio/internal/platform/validate"
)

const maxReferenceLength = 64

// notificationTopic is the only gateway topic Folio reconciles.
const notificationTopic = "payment"

// BookLookup resolves a catalog book, failing with a not-found error.
type BookLookup interface {
	BookTitle(ctx context.Context, bookID int64) (string, error)
}

// # Service Layer

// Service manages purchases and gateway reconciliation.
type Service struct {
	repo      Repository
	books     BookLookup
	deduper   Deduper
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a [Service]. deduper and publisher may be nil.
func NewService(repo Repository, books BookLookup, deduper Deduper, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		books:     books,
		deduper:   deduper,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Purchases

/*
CreatePurchase records a pending purchase for the checkout reference.

Repeating the call with the same reference returns the stored purchase. A
reference already used by another user, or for another book, is a conflict.
*/
func (service *Service) CreatePurchase(ctx context.Context, userID int64, input CreateInput) (*Purchase, bool, error) {
	validator := &validate.Validator{}
	validator.
		Positive(FieldBookID, input.BookID).
		Required(FieldReference, input.Reference).
		MaxLen(FieldReference, input.Reference, maxReferenceLength)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	if _, err := service.books.BookTitle(ctx, input.BookID); err != nil {
		return nil, false, err
	}

	purchase, created, err := service.repo.Create(ctx, userID, input.BookID, input.Reference)
	if err != nil {
		return nil, false, err
	}

	if !created && (purchase.UserID != userID || purchase.BookID != input.BookID) {
		return nil, false, ErrReferenceTaken
	}

	if created {
		service.logger.InfoContext(ctx, "purchase_created",
			slog.Int64("purchase_id", purchase.ID),
			slog.Int64("user_id", userID),
			slog.Int64("book_id", input.BookID),
			slog.String("reference", input.Reference),
		)
	}
	return purchase, created, nil
}

// HasAccess reports whether the user owns an approved purchase of the book.
func (service *Service) HasAccess(ctx context.Context, userID, bookID int64) (bool, error) {
	return service.repo.HasApproved(ctx, userID, bookID)
}

// ListLibrary returns the books the user owns.
func (service *Service) ListLibrary(ctx context.Context, userID int64) ([]*LibraryItem, error) {
	return service.repo.ListLibrary(ctx, userID)
}

// SalesStats reports today's sales and this month's revenue in UTC.
func (service *Service) SalesStats(ctx context.Context) (*SalesStats, error) {
	now := service.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return service.repo.SalesStats(ctx, dayStart, monthStart)
}

// # Webhook

func knownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusInProcess, StatusApproved, StatusRejected, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

/*
ApplyPaymentNotification reconciles one gateway notification.

Notifications that cannot be matched to a purchase are acknowledged with an
"ignored" result so the gateway stops retrying them. A late status that would
take an approved purchase anywhere but refunded or cancelled is ignored as
stale. Only storage failures are returned as errors.

The delivery claim is released on storage failures and on unknown references,
so a retry or a manual resend after the purchase exists is processed.
*/
func (service *Service) ApplyPaymentNotification(ctx context.Context, notification Notification) (*WebhookResult, error) {
	if notification.Kind() != notificationTopic {
		return ignored("topic not payment"), nil
	}

	paymentID := string(notification.Data.ID)
	if paymentID == "" {
		return ignored("no payment id"), nil
	}

	reference := notification.Data.ExternalReference
	if reference == "" {
		return ignored("no external_reference"), nil
	}

	status := notification.Data.Status
	if !knownStatus(status) {
		return ignored("unknown status"), nil
	}

	key := DeliveryKey(paymentID, status)
	claimed := false
	if service.deduper != nil {
		fresh, err := service.deduper.Claim(ctx, key)
		switch {
		case err != nil:
			service.logger.WarnContext(ctx, "payment_webhook_dedupe_unavailable",
				slog.String("payment_id", paymentID),
				slog.Any("error", err),
			)
		case !fresh:
			return ignored("duplicate delivery"), nil
		default:
			claimed = true
		}
	}

	result, err := service.applyStatus(ctx, reference, paymentID, status)
	if claimed && (err != nil || result.Reason == reasonPurchaseNotFound) {
		if releaseErr := service.deduper.Release(ctx, key); releaseErr != nil {
			service.logger.WarnContext(ctx, "payment_webhook_release_failed",
				slog.String("key", key),
				slog.Any("error", releaseErr),
			)
		}
	}
	return result, err
}

func (service *Service) applyStatus(ctx context.Context, reference, paymentID string, status Status) (*WebhookResult, error) {
	purchase, err := service.repo.FindByReference(ctx, reference)
	if errors.Is(err, ErrPurchaseNotFound) {
		service.logger.WarnContext(ctx, "payment_webhook_unknown_reference",
			slog.String("reference", reference),
			slog.String("payment_id", paymentID),
		)
		return ignored(reasonPurchaseNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	if !purchase.Status.CanMoveTo(status) {
		service.logger.WarnContext(ctx, "payment_webhook_stale_status",
			slog.Int64("purchase_id", purchase.ID),
			slog.String("current", string(purchase.Status)),
			slog.String("received", string(status)),
			slog.String("payment_id", paymentID),
		)
		return ignored(reasonStaleStatus), nil
	}

	updated, changed, err := service.repo.UpdateStatus(ctx, purchase.ID, status, paymentID, service.now())
	if err != nil {
		return nil, err
	}

	if changed {
		service.logger.InfoContext(ctx, "purchase_status_changed",
			slog.Int64("purchase_id", updated.ID),
			slog.String("from", string(purchase.Status)),
			slog.String("to", string(status)),
			slog.String("payment_id", paymentID),
		)
		if status == StatusApproved {
			service.publishApproved(ctx, updated, paymentID)
		}
	}

	return &WebhookResult{
		Status:     "ok",
		PurchaseID: updated.ID,
		BookID:     updated.BookID,
		NewStatus:  updated.Status,
	}, nil
}

// publishApproved never fails the webhook; the purchase is already committed.
func (service *Service) publishApproved(ctx context.Context, purchase *Purchase, paymentID string) {
	if service.publisher == nil {
		return
	}

	approvedAt := service.now()
	if purchase.ApprovedAt != nil {
		approvedAt = *purchase.ApprovedAt
	}

	event, err := events.NewEvent(constants.SubjectPurchaseApproved, ApprovedEvent{
		PurchaseID: purchase.ID,
		UserID:     purchase.UserID,
		BookID:     purchase.BookID,
		Reference:  purchase.Reference,
		PaymentID:  paymentID,
		ApprovedAt: approvedAt,
	}, service.now())
	if err == nil {
		err = service.publisher.Publish(ctx, constants.SubjectPurchaseApproved, event)
	}
	if err != nil {
		service.logger.ErrorContext(ctx, "purchase_event_publish_failed",
			slog.Int64("purchase_id", purchase.ID),
			slog.Any("error", err),
		)
	}
}
