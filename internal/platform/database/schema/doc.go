// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column identifiers used to build SQL.
//
// Every repository formats its queries from these values instead of string
// literals, so a renamed column fails in one place.
package schema
