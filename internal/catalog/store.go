// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// Repository persists the catalog.
type Repository interface {
	ListBooks(ctx context.Context, filter Filter, limit, offset int) ([]*Book, int, error)
	GetBook(ctx context.Context, id int64) (*Book, error)
	CreateBook(ctx context.Context, book *Book) error
	UpdateBook(ctx context.Context, book *Book) error
	DeleteBook(ctx context.Context, id int64) error
	BookTitle(ctx context.Context, id int64) (string, error)

	ListEntries(ctx context.Context, kind Kind) ([]*Entry, error)
	GetEntry(ctx context.Context, kind Kind, id int64) (*Entry, error)
	CreateEntry(ctx context.Context, kind Kind, entry *Entry) error
	UpdateEntry(ctx context.Context, kind Kind, entry *Entry) error
	DeleteEntry(ctx context.Context, kind Kind, id int64) error
}
