// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the reading session ledger and the analytics
computed over it.

A session is the interval during which a reader had a book open. For every
(user, book) pair at most one session is open at a time; opening again returns
that session untouched. Closing stamps the end time exactly once.

Analytics (total minutes, intermittency) are recomputed from closed sessions on
every request and never stored.
*/
package session

import (
	"context"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// # Domain Entities

// Status is the derived lifecycle state of a [Session].
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Session is one reading interval of a user on a book.
type Session struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	BookID    int64      `json:"book_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// IsOpen reports whether the session has not been closed yet.
func (session *Session) IsOpen() bool {
	return session.EndedAt == nil
}

// Status derives the lifecycle state from EndedAt.
func (session *Session) Status() Status {
	if session.IsOpen() {
		return StatusOpen
	}
	return StatusClosed
}

// Duration returns the closed interval length, or zero for an open session.
// Negative intervals caused by clock skew count as zero.
func (session *Session) Duration() time.Duration {
	if session.EndedAt == nil {
		return 0
	}
	duration := session.EndedAt.Sub(session.StartedAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// Stats is the per-book reading summary shown on the reader dashboard.
type Stats struct {
	BookID            int64   `json:"book_id"`
	Title             string  `json:"title"`
	Minutes           int64   `json:"minutes"`
	Hours             float64 `json:"hours"`
	IntermittencyDays float64 `json:"intermittency_days"`
	Sessions          int     `json:"sessions"`
}

// # Collaborators

// BookLookup resolves catalog data needed by the reading dashboard.
type BookLookup interface {
	BookTitle(ctx context.Context, bookID int64) (string, error)
}

// Entitlements decides whether a user may read a book.
type Entitlements interface {
	HasAccess(ctx context.Context, userID, bookID int64) (bool, error)
}

// # Domain Errors

var (
	ErrSessionNotFound  = apperr.NotFound("Reading session")
	ErrSessionNotOwned  = apperr.Forbidden("Reading session belongs to another user")
	ErrSessionClosed    = apperr.InvalidState("Reading session is already closed")
	ErrBookNotPurchased = apperr.Forbidden("Book has not been purchased")
)

// Field names used in validation errors.
const (
	FieldBookID = "book_id"
)
