// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Description string
	PublishedOn string
	Price       string
	FileURL     string
	CoverURL    string
	Discount    string
	IsActive    string
	AuthorID    string
	CategoryID  string
	EditorialID string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:       "catalog.book",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	PublishedOn: "publishedon",
	Price:       "price",
	FileURL:     "fileurl",
	CoverURL:    "coverurl",
	Discount:    "discount",
	IsActive:    "isactive",
	AuthorID:    "authorid",
	CategoryID:  "categoryid",
	EditorialID: "editorialid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
