// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import "context"

// Repository persists reading progress.
type Repository interface {
	// Upsert creates or overwrites the row of (UserID, BookID) and returns the stored state.
	Upsert(ctx context.Context, progress *Progress) (*Progress, error)
	// Get returns [ErrProgressNotFound] when nothing was saved yet.
	Get(ctx context.Context, userID, bookID int64) (*Progress, error)
	// ListForUser returns every book the user has progress on, most recent first.
	ListForUser(ctx context.Context, userID int64) ([]*BookProgress, error)
}
