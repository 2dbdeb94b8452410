// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestToPgx5DSN checks the scheme rewrite applied before handing the DSN to golang-migrate.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"postgres scheme", "postgres://u:p@localhost:5432/folio", "pgx5://u:p@localhost:5432/folio"},
		{"postgresql scheme", "postgresql://u@db/folio?sslmode=disable", "pgx5://u@db/folio?sslmode=disable"},
		{"already pgx5", "pgx5://u@db/folio", "pgx5://u@db/folio"},
		{"keyword form", "host=db user=u dbname=folio", "host=db user=u dbname=folio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPgx5DSN(tt.dsn))
		})
	}
}
