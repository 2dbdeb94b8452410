// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds small generic helpers for optional fields.
//
// Optional JSON inputs (annotation patches, progress pages) are decoded into
// pointers so that "absent" and "zero" stay distinguishable.
package pointer

// To returns a pointer to a copy of value.
func To[T any](value T) *T {
	return &value
}

// Fallback dereferences ptr, or returns fallback when ptr is nil.
func Fallback[T any](ptr *T, fallback T) T {
	if ptr == nil {
		return fallback
	}
	return *ptr
}
