// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogEditorialTable represents the 'catalog.editorial' table
type CatalogEditorialTable struct {
	Table     string
	ID        string
	Name      string
	Bio       string
	CreatedAt string
	UpdatedAt string
}

// CatalogEditorial is the schema definition for catalog.editorial
var CatalogEditorial = CatalogEditorialTable{
	Table:     "catalog.editorial",
	ID:        "id",
	Name:      "name",
	Bio:       "bio",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
