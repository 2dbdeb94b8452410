// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"time"

	"github.com/taibuivan/folio/internal/platform/events"
)

// Repository is the persistence port for purchases.
type Repository interface {
	// Create inserts a pending purchase unless the reference already exists,
	// in which case the stored row is returned with created=false.
	Create(ctx context.Context, userID, bookID int64, reference string) (*Purchase, bool, error)

	FindByReference(ctx context.Context, reference string) (*Purchase, error)

	// UpdateStatus sets the gateway status and payment id. It reports whether
	// the stored status actually changed; a move refused by [Status.CanMoveTo]
	// leaves the row as it is.
	UpdateStatus(ctx context.Context, id int64, status Status, paymentID string, at time.Time) (*Purchase, bool, error)

	HasApproved(ctx context.Context, userID, bookID int64) (bool, error)
	ListLibrary(ctx context.Context, userID int64) ([]*LibraryItem, error)
	SalesStats(ctx context.Context, dayStart, monthStart time.Time) (*SalesStats, error)
}

// Deduper guards webhook deliveries against replays.
type Deduper interface {
	// Claim returns false when key was already claimed.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// EventPublisher delivers purchase events to the bus.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event events.Event) error
}
