// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReadingSessionTable represents the 'reading.session' table
type ReadingSessionTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	StartedAt string
	EndedAt   string

	// OpenIndex is the partial unique index over (userid, bookid) WHERE endedat IS NULL.
	OpenIndex string
}

// ReadingSession is the schema definition for reading.session
var ReadingSession = ReadingSessionTable{
	Table:     "reading.session",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	StartedAt: "startedat",
	EndedAt:   "endedat",
	OpenIndex: "ux_session_open",
}
