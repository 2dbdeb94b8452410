// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/folio/internal/platform/validate"
)

// Service validates and stores reading progress.
type Service struct {
	repo         Repository
	entitlements Entitlements
	logger       *slog.Logger
}

// NewService constructs a [Service]. entitlements may be nil.
func NewService(repo Repository, entitlements Entitlements, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		entitlements: entitlements,
		logger:       logger,
	}
}

/*
SaveProgress upserts the caller's position in a book.

Pages must be non-negative. A page left out of the input keeps its stored
value, and the current page cannot exceed the total of the resulting row.
*/
func (service *Service) SaveProgress(ctx context.Context, userID int64, input SaveInput) (*Progress, error) {
	validator := &validate.Validator{}
	validator.Positive(FieldBookID, input.BookID).
		OptionalMin(FieldCurrentPage, input.CurrentPage, 0).
		OptionalMin(FieldTotalPages, input.TotalPages, 0)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, total, err := service.mergedPages(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if current != nil && total != nil && *current > *total {
		if input.CurrentPage != nil {
			validator.Custom(FieldCurrentPage, true, "Cannot exceed total_pages")
		} else {
			validator.Custom(FieldTotalPages, true, "Cannot be below current_page")
		}
		return nil, validator.Err()
	}

	if service.entitlements != nil {
		allowed, err := service.entitlements.HasAccess(ctx, userID, input.BookID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrBookNotPurchased
		}
	}

	saved, err := service.repo.Upsert(ctx, &Progress{
		UserID:      userID,
		BookID:      input.BookID,
		CurrentPage: input.CurrentPage,
		TotalPages:  input.TotalPages,
	})
	if err != nil {
		return nil, err
	}

	service.logger.DebugContext(ctx, "reading_progress_saved",
		slog.Int64("user_id", userID),
		slog.Int64("book_id", input.BookID),
	)
	return saved, nil
}

// mergedPages resolves the pages the row will hold after the upsert.
func (service *Service) mergedPages(ctx context.Context, userID int64, input SaveInput) (current, total *int, err error) {
	current, total = input.CurrentPage, input.TotalPages
	if (current == nil) == (total == nil) {
		return current, total, nil
	}

	stored, err := service.repo.Get(ctx, userID, input.BookID)
	if errors.Is(err, ErrProgressNotFound) {
		return current, total, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if current == nil {
		current = stored.CurrentPage
	}
	if total == nil {
		total = stored.TotalPages
	}
	return current, total, nil
}

// GetProgress returns the caller's saved position in a book.
func (service *Service) GetProgress(ctx context.Context, userID, bookID int64) (*Progress, error) {
	return service.repo.Get(ctx, userID, bookID)
}

// ListForUser returns the progress report of one user, for administrators.
func (service *Service) ListForUser(ctx context.Context, userID int64) ([]*BookProgress, error) {
	return service.repo.ListForUser(ctx, userID)
}
