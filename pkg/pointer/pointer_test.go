// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/pointer"
)

func TestTo(t *testing.T) {
	value := 14
	ptr := pointer.To(value)
	value = 20

	assert.Equal(t, 14, *ptr)
}

func TestFallback(t *testing.T) {
	assert.Equal(t, 200, pointer.Fallback(nil, 200))
	assert.Equal(t, 0, pointer.Fallback(pointer.To(0), 200))
	assert.Equal(t, "#fff", pointer.Fallback((*string)(nil), "#fff"))
}
