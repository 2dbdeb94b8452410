// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// UserRole is the "role" claim of an access token.
type UserRole string

const (
	RoleReader UserRole = "reader"
	RoleAdmin  UserRole = "admin"
)

// ladder orders roles from least to most privileged.
var ladder = []UserRole{RoleReader, RoleAdmin}

// ParseRole normalises a claim value. Unknown values yield the empty role,
// which satisfies no requirement.
func ParseRole(raw string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if role.rank() < 0 {
		return ""
	}
	return role
}

// AtLeast reports whether r grants everything target grants.
func (r UserRole) AtLeast(target UserRole) bool {
	rank := r.rank()
	return rank >= 0 && rank >= target.rank()
}

func (r UserRole) rank() int {
	for index, role := range ladder {
		if role == r {
			return index
		}
	}
	return -1
}
