// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"

	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slug"
)

// slugAttempts bounds how many numeric suffixes are tried on a slug collision.
const slugAttempts = 5

// # Service Layer

// Service orchestrates catalog reads and administrative writes.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Books

func (service *Service) ListBooks(ctx context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.repo.ListBooks(ctx, filter, limit, offset)
}

func (service *Service) GetBook(ctx context.Context, id int64) (*Book, error) {
	return service.repo.GetBook(ctx, id)
}

// BookTitle resolves the title of a book for other packages.
func (service *Service) BookTitle(ctx context.Context, id int64) (string, error) {
	return service.repo.BookTitle(ctx, id)
}

/*
CreateBook validates and inserts a book.

The slug is derived from the title. When it collides with an existing book a
numeric suffix is appended ("cien-anos-de-soledad-2").
*/
func (service *Service) CreateBook(ctx context.Context, book *Book) error {
	if err := validateBook(book); err != nil {
		return err
	}

	base := slug.From(book.Title, "book")

	var err error
	for attempt := 1; attempt <= slugAttempts; attempt++ {
		book.Slug = slug.Candidate(base, attempt)

		err = service.repo.CreateBook(ctx, book)
		if err == nil || !dberr.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "book_created", slog.Int64("book_id", book.ID), slog.String("slug", book.Slug))
	return nil
}

// UpdateBook replaces the editable fields of a book. The slug is kept stable.
func (service *Service) UpdateBook(ctx context.Context, id int64, book *Book) error {
	book.ID = id
	if err := validateBook(book); err != nil {
		return err
	}

	if err := service.repo.UpdateBook(ctx, book); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "book_updated", slog.Int64("book_id", id))
	return nil
}

func (service *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := service.repo.DeleteBook(ctx, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "book_deleted", slog.Int64("book_id", id))
	return nil
}

func validateBook(book *Book) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, book.Title).
		MaxLen(FieldTitle, book.Title, maxTitleLength).
		Min(FieldPrice, book.Price, 0).
		Min(FieldDiscount, book.Discount, 0).
		Custom(FieldDiscount, book.Discount > 100, "Must be at most 100")

	return validator.Err()
}

// # Reference Entries

func (service *Service) ListEntries(ctx context.Context, kind Kind) ([]*Entry, error) {
	return service.repo.ListEntries(ctx, kind)
}

func (service *Service) GetEntry(ctx context.Context, kind Kind, id int64) (*Entry, error) {
	return service.repo.GetEntry(ctx, kind, id)
}

func (service *Service) CreateEntry(ctx context.Context, kind Kind, entry *Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	if err := service.repo.CreateEntry(ctx, kind, entry); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "catalog_entry_created", slog.String("kind", string(kind)), slog.Int64("entry_id", entry.ID))
	return nil
}

func (service *Service) UpdateEntry(ctx context.Context, kind Kind, id int64, entry *Entry) error {
	entry.ID = id
	if err := validateEntry(entry); err != nil {
		return err
	}
	return service.repo.UpdateEntry(ctx, kind, entry)
}

func (service *Service) DeleteEntry(ctx context.Context, kind Kind, id int64) error {
	if err := service.repo.DeleteEntry(ctx, kind, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "catalog_entry_deleted", slog.String("kind", string(kind)), slog.Int64("entry_id", id))
	return nil
}

func validateEntry(entry *Entry) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, entry.Name).MaxLen(FieldName, entry.Name, maxNameLength)
	return validator.Err()
}
