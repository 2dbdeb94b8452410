// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/folio/internal/platform/validate"
)

// # Service Layer

// Service runs the session ledger and the analytics built on it.
type Service struct {
	repo         Repository
	books        BookLookup
	entitlements Entitlements
	logger       *slog.Logger
	now          func() time.Time
}

// NewService constructs a [Service].
//
// entitlements may be nil, in which case any authenticated reader can open
// sessions on any book.
func NewService(repo Repository, books BookLookup, entitlements Entitlements, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		books:        books,
		entitlements: entitlements,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used to stamp sessions.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Ledger

/*
OpenSession returns the caller's open session on the book, creating it when
none exists.

Returns:
  - *Session: The open session (existing or new)
  - bool: true when the session was created by this call
  - error: Validation, entitlement or persistence failure
*/
func (service *Service) OpenSession(ctx context.Context, userID, bookID int64) (*Session, bool, error) {
	validator := &validate.Validator{}
	validator.Positive(FieldBookID, bookID)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	if service.entitlements != nil {
		allowed, err := service.entitlements.HasAccess(ctx, userID, bookID)
		if err != nil {
			return nil, false, err
		}
		if !allowed {
			return nil, false, ErrBookNotPurchased
		}
	}

	session, created, err := service.repo.OpenOrGet(ctx, userID, bookID, service.now())
	if err != nil {
		return nil, false, err
	}

	if created {
		service.logger.InfoContext(ctx, "reading_session_opened",
			slog.Int64("session_id", session.ID),
			slog.Int64("user_id", userID),
			slog.Int64("book_id", bookID),
		)
	}
	return session, created, nil
}

/*
CloseSession stamps the end time of an open session owned by userID.

Errors:
  - ErrSessionNotFound: no such session
  - ErrSessionNotOwned: the session belongs to another user
  - ErrSessionClosed: the session was already closed, including by a concurrent call
*/
func (service *Service) CloseSession(ctx context.Context, sessionID, userID int64) (*Session, error) {
	session, err := service.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}

	if !session.IsOpen() {
		return nil, ErrSessionClosed
	}

	endedAt := service.now()
	if endedAt.Before(session.StartedAt) {
		endedAt = session.StartedAt
	}

	closed, err := service.repo.Close(ctx, sessionID, endedAt)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "reading_session_closed",
		slog.Int64("session_id", closed.ID),
		slog.Int64("user_id", userID),
		slog.Int64("book_id", closed.BookID),
		slog.Int64("minutes", int64(closed.Duration()/time.Minute)),
	)
	return closed, nil
}

// GetSession returns a session owned by userID.
func (service *Service) GetSession(ctx context.Context, sessionID, userID int64) (*Session, error) {
	session, err := service.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}

// ListSessions returns the user's sessions, optionally restricted to one book.
func (service *Service) ListSessions(ctx context.Context, userID, bookID int64) ([]*Session, error) {
	return service.repo.ListByUser(ctx, userID, bookID)
}

// # Analytics

// TotalMinutesRead sums the whole minutes of the user's closed sessions on the book.
func (service *Service) TotalMinutesRead(ctx context.Context, userID, bookID int64) (int64, error) {
	sessions, err := service.repo.ListClosed(ctx, userID, bookID)
	if err != nil {
		return 0, err
	}
	return TotalMinutes(sessions), nil
}

// Intermittency returns the mean day gap between the user's closed sessions on the book.
func (service *Service) Intermittency(ctx context.Context, userID, bookID int64) (float64, error) {
	sessions, err := service.repo.ListClosed(ctx, userID, bookID)
	if err != nil {
		return 0, err
	}
	return Intermittency(sessions), nil
}

// ReadingStats combines both metrics with the catalog title in a single read.
func (service *Service) ReadingStats(ctx context.Context, userID, bookID int64) (*Stats, error) {
	title, err := service.books.BookTitle(ctx, bookID)
	if err != nil {
		return nil, err
	}

	sessions, err := service.repo.ListClosed(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	minutes := TotalMinutes(sessions)
	return &Stats{
		BookID:            bookID,
		Title:             title,
		Minutes:           minutes,
		Hours:             Hours(minutes),
		IntermittencyDays: Intermittency(sessions),
		Sessions:          len(sessions),
	}, nil
}
