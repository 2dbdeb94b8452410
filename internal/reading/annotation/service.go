// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package annotation

import (
	"context"
	"log/slog"

	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/pointer"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListAnnotations returns the caller's notes on a book ordered by page.
func (service *Service) ListAnnotations(ctx context.Context, userID, bookID int64) ([]*Annotation, error) {
	return service.repo.ListByBook(ctx, userID, bookID)
}

// CreateAnnotation stores a new note owned by userID, filling box defaults.
func (service *Service) CreateAnnotation(ctx context.Context, userID int64, input CreateInput) (*Annotation, error) {
	annotation := &Annotation{
		UserID:   userID,
		BookID:   input.BookID,
		Page:     input.Page,
		PosX:     input.PosX,
		PosY:     input.PosY,
		Body:     input.Body,
		Width:    pointer.Fallback(input.Width, DefaultWidth),
		Height:   pointer.Fallback(input.Height, DefaultHeight),
		FontSize: pointer.Fallback(input.FontSize, DefaultFontSize),
	}

	validator := &validate.Validator{}
	validator.Positive(FieldBookID, annotation.BookID)
	if err := validateAnnotation(validator, annotation); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, annotation); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "annotation_created",
		slog.Int64("annotation_id", annotation.ID),
		slog.Int64("book_id", annotation.BookID),
		slog.Int("page", annotation.Page),
	)
	return annotation, nil
}

// UpdateAnnotation applies a partial update to a note owned by userID.
func (service *Service) UpdateAnnotation(ctx context.Context, id, userID int64, patch Patch) (*Annotation, error) {
	annotation, err := service.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(annotation)

	if err := validateAnnotation(&validate.Validator{}, annotation); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, annotation); err != nil {
		return nil, err
	}
	return annotation, nil
}

// DeleteAnnotation removes a note owned by userID.
func (service *Service) DeleteAnnotation(ctx context.Context, id, userID int64) error {
	if _, err := service.owned(ctx, id, userID); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "annotation_deleted", slog.Int64("annotation_id", id))
	return nil
}

func (service *Service) owned(ctx context.Context, id, userID int64) (*Annotation, error) {
	annotation, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if annotation.UserID != userID {
		return nil, ErrAnnotationNotOwned
	}
	return annotation, nil
}

func validateAnnotation(validator *validate.Validator, annotation *Annotation) error {
	validator.Min(FieldPage, annotation.Page, 1).
		FloatRange(FieldPosX, annotation.PosX, 0, 1).
		FloatRange(FieldPosY, annotation.PosY, 0, 1).
		Required(FieldBody, annotation.Body).
		MaxLen(FieldBody, annotation.Body, maxBodyLength).
		Min(FieldWidth, annotation.Width, 1).
		Min(FieldHeight, annotation.Height, 1).
		Min(FieldFontSize, annotation.FontSize, 1)

	return validator.Err()
}
