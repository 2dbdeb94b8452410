// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package progress tracks how far a reader got in each book.
//
// There is one progress row per (user, book). Saving creates it the first time
// and overwrites it afterwards.
package progress

import (
	"context"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// Progress is the page position of a user in a book.
type Progress struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	BookID      int64     `json:"book_id"`
	CurrentPage *int      `json:"current_page"`
	TotalPages  *int      `json:"total_pages"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Percent returns the completion ratio in [0, 100], or nil when unknown.
func (progress *Progress) Percent() *float64 {
	if progress.CurrentPage == nil || progress.TotalPages == nil || *progress.TotalPages == 0 {
		return nil
	}
	percent := float64(*progress.CurrentPage) * 100 / float64(*progress.TotalPages)
	return &percent
}

// BookProgress is a row of the per-user admin report.
type BookProgress struct {
	BookID      int64     `json:"book_id"`
	Title       string    `json:"title"`
	CurrentPage *int      `json:"current_page"`
	TotalPages  *int      `json:"total_pages"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveInput is the payload of SaveProgress.
type SaveInput struct {
	BookID      int64 `json:"book_id"`
	CurrentPage *int  `json:"current_page"`
	TotalPages  *int  `json:"total_pages"`
}

// Entitlements decides whether a user may read a book.
type Entitlements interface {
	HasAccess(ctx context.Context, userID, bookID int64) (bool, error)
}

var (
	ErrProgressNotFound = apperr.NotFound("Reading progress")
	ErrBookNotPurchased = apperr.Forbidden("Book has not been purchased")
)

// Field names used in validation errors.
const (
	FieldBookID      = "book_id"
	FieldCurrentPage = "current_page"
	FieldTotalPages  = "total_pages"
)
