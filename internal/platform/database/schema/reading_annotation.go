// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReadingAnnotationTable represents the 'reading.annotation' table
type ReadingAnnotationTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Page      string
	PosX      string
	PosY      string
	Body      string
	Width     string
	Height    string
	FontSize  string
	CreatedAt string
	UpdatedAt string
}

// ReadingAnnotation is the schema definition for reading.annotation
var ReadingAnnotation = ReadingAnnotationTable{
	Table:     "reading.annotation",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	Page:      "page",
	PosX:      "posx",
	PosY:      "posy",
	Body:      "body",
	Width:     "width",
	Height:    "height",
	FontSize:  "fontsize",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
