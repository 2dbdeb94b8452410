// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"time"
)

// Repository persists reading sessions.
type Repository interface {
	// OpenOrGet returns the open session of the pair, creating one started at
	// startedAt when none exists. The boolean reports whether a row was created.
	// Concurrent callers for the same pair must converge on a single row.
	OpenOrGet(ctx context.Context, userID, bookID int64, startedAt time.Time) (*Session, bool, error)

	// FindByID returns [ErrSessionNotFound] when the row does not exist.
	FindByID(ctx context.Context, id int64) (*Session, error)

	// Close sets EndedAt only if the session is still open.
	// It returns [ErrSessionClosed] when another caller closed it first.
	Close(ctx context.Context, id int64, endedAt time.Time) (*Session, error)

	// ListByUser returns the user's sessions, newest first. A zero bookID lists all books.
	ListByUser(ctx context.Context, userID, bookID int64) ([]*Session, error)

	// ListClosed returns closed sessions of the pair ordered by StartedAt ascending.
	ListClosed(ctx context.Context, userID, bookID int64) ([]*Session, error)
}
