// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog manages the books on sale and the reference data describing
them: authors, categories and editorials.

Reads are public. Writes are reserved to administrators. Other packages never
traverse catalog rows directly; they resolve what they need through the
[Service.BookTitle] lookup.
*/
package catalog

import (
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// # Domain Entities

// Book is a purchasable title.
type Book struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	PublishedOn *time.Time `json:"published_on"`
	Price       int        `json:"price"`
	Discount    int        `json:"discount"`
	FileURL     string     `json:"file_url"`
	CoverURL    string     `json:"cover_url"`
	IsActive    bool       `json:"is_active"`
	AuthorID    *int64     `json:"author_id"`
	CategoryID  *int64     `json:"category_id"`
	EditorialID *int64     `json:"editorial_id"`

	// Resolved names, read-only.
	AuthorName    *string `json:"author_name,omitempty"`
	CategoryName  *string `json:"category_name,omitempty"`
	EditorialName *string `json:"editorial_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FinalPrice applies the percentage discount, rounding down.
func (book *Book) FinalPrice() int {
	return book.Price * (100 - book.Discount) / 100
}

// Kind selects one of the reference tables.
type Kind string

const (
	KindAuthor    Kind = "authors"
	KindCategory  Kind = "categories"
	KindEditorial Kind = "editorials"
)

// Entry is an author, a category or an editorial. Description holds the
// biography for authors and editorials.
type Entry struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter holds the parameters of a paginated book search.
type Filter struct {
	Query           string // ILIKE against title and description
	AuthorID        int64
	CategoryID      int64
	IncludeInactive bool
}

// # Domain Errors

var (
	ErrBookNotFound  = apperr.NotFound("Book")
	ErrEntryNotFound = apperr.NotFound("Catalog entry")
	ErrBookInUse     = apperr.Conflict("Book has reading or purchase history")
)

// Field names used in validation errors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldDiscount    = "discount"
	FieldName        = "name"
)

const (
	maxTitleLength = 150
	maxNameLength  = 100
)
