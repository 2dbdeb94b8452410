// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/folio/internal/commerce/purchase"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/events"
)

type memoryRepository struct {
	mu        sync.Mutex
	nextID    int64
	purchases map[int64]*purchase.Purchase
	updateErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{purchases: make(map[int64]*purchase.Purchase)}
}

func (repository *memoryRepository) Create(_ context.Context, userID, bookID int64, reference string) (*purchase.Purchase, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.purchases {
		if existing.Reference == reference {
			copied := *existing
			return &copied, false, nil
		}
	}

	repository.nextID++
	now := time.Now().UTC()
	created := &purchase.Purchase{
		ID: repository.nextID, UserID: userID, BookID: bookID, Reference: reference,
		Status: purchase.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	repository.purchases[created.ID] = created
	copied := *created
	return &copied, true, nil
}

func (repository *memoryRepository) FindByReference(_ context.Context, reference string) (*purchase.Purchase, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.purchases {
		if existing.Reference == reference {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, purchase.ErrPurchaseNotFound
}

func (repository *memoryRepository) UpdateStatus(_ context.Context, id int64, status purchase.Status, paymentID string, at time.Time) (*purchase.Purchase, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.updateErr != nil {
		return nil, false, repository.updateErr
	}

	found, ok := repository.purchases[id]
	if !ok {
		return nil, false, purchase.ErrPurchaseNotFound
	}
	if found.Status == status || !found.Status.CanMoveTo(status) {
		copied := *found
		return &copied, false, nil
	}

	found.Status = status
	found.PaymentID = &paymentID
	found.UpdatedAt = at
	if status == purchase.StatusApproved && found.ApprovedAt == nil {
		found.ApprovedAt = &at
	}
	copied := *found
	return &copied, true, nil
}

func (repository *memoryRepository) HasApproved(_ context.Context, userID, bookID int64) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.purchases {
		if existing.UserID == userID && existing.BookID == bookID && existing.Status == purchase.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (repository *memoryRepository) ListLibrary(_ context.Context, userID int64) ([]*purchase.LibraryItem, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	items := []*purchase.LibraryItem{}
	for _, existing := range repository.purchases {
		if existing.UserID == userID && existing.Status == purchase.StatusApproved {
			items = append(items, &purchase.LibraryItem{BookID: existing.BookID, PurchasedAt: *existing.ApprovedAt})
		}
	}
	return items, nil
}

func (repository *memoryRepository) SalesStats(_ context.Context, dayStart, monthStart time.Time) (*purchase.SalesStats, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stats := &purchase.SalesStats{}
	for _, existing := range repository.purchases {
		if existing.Status != purchase.StatusApproved {
			continue
		}
		stats.Transactions++
		if !existing.ApprovedAt.Before(dayStart) {
			stats.SalesToday++
		}
		if !existing.ApprovedAt.Before(monthStart) {
			stats.RevenueMonth += 1000
		}
	}
	return stats, nil
}

func (repository *memoryRepository) status(reference string) purchase.Status {
	found, err := repository.FindByReference(context.Background(), reference)
	if err != nil {
		return ""
	}
	return found.Status
}

type stubBooks map[int64]string

func (books stubBooks) BookTitle(_ context.Context, bookID int64) (string, error) {
	title, ok := books[bookID]
	if !ok {
		return "", apperr.NotFound("Book")
	}
	return title, nil
}

// memoryDeduper mimics SETNX semantics.
type memoryDeduper struct {
	mu       sync.Mutex
	keys     map[string]bool
	claimErr error
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{keys: make(map[string]bool)}
}

func (deduper *memoryDeduper) Claim(_ context.Context, key string) (bool, error) {
	deduper.mu.Lock()
	defer deduper.mu.Unlock()

	if deduper.claimErr != nil {
		return false, deduper.claimErr
	}
	if deduper.keys[key] {
		return false, nil
	}
	deduper.keys[key] = true
	return true, nil
}

func (deduper *memoryDeduper) Release(_ context.Context, key string) error {
	deduper.mu.Lock()
	defer deduper.mu.Unlock()
	delete(deduper.keys, key)
	return nil
}

func (deduper *memoryDeduper) has(key string) bool {
	deduper.mu.Lock()
	defer deduper.mu.Unlock()
	return deduper.keys[key]
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []events.Event
	err      error
}

func (publisher *recordingPublisher) Publish(_ context.Context, subject string, event events.Event) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.err != nil {
		return publisher.err
	}
	publisher.subjects = append(publisher.subjects, subject)
	publisher.events = append(publisher.events, event)
	return nil
}

func (publisher *recordingPublisher) count() int {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	return len(publisher.events)
}

var errBroken = errors.New("broken")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
