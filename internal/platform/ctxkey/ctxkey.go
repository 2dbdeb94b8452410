// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed keys Folio stores in a request context.
//
// Only middleware writes these values; handlers and services read them through
// [ctxutil].
package ctxkey

// key is unexported so no other package can mint a colliding value.
type key struct{ name string }

func (k key) String() string { return "folio/" + k.name }

var (
	// RequestID holds the X-Request-ID correlation value.
	RequestID = key{"request_id"}

	// Claims holds the verified access-token claims.
	Claims = key{"claims"}

	// Logger holds the request-scoped *slog.Logger.
	Logger = key{"logger"}
)
