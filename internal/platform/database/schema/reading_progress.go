// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReadingProgressTable represents the 'reading.progress' table
type ReadingProgressTable struct {
	Table       string
	ID          string
	UserID      string
	BookID      string
	CurrentPage string
	TotalPages  string
	UpdatedAt   string
}

// ReadingProgress is the schema definition for reading.progress
var ReadingProgress = ReadingProgressTable{
	Table:       "reading.progress",
	ID:          "id",
	UserID:      "userid",
	BookID:      "bookid",
	CurrentPage: "currentpage",
	TotalPages:  "totalpages",
	UpdatedAt:   "updatedat",
}
