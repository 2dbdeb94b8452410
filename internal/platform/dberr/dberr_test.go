// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

/*
TestWrap classifies the driver errors the repositories can surface.
*/
func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, dberr.Wrap(nil, "noop"))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		err := dberr.Wrap(pgx.ErrNoRows, "get_book")
		assert.ErrorIs(t, err, dberr.ErrNotFound)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		err := dberr.Wrap(pgErr, "create_category")

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperr.CodeConflict, appErr.Code)
		assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
		assert.ErrorIs(t, err, pgErr)
		assert.True(t, dberr.IsUniqueViolation(err))
	})

	t.Run("foreign key violation becomes validation", func(t *testing.T) {
		err := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "create_book")
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		assert.True(t, dberr.IsForeignKeyViolation(err))
		assert.False(t, dberr.IsUniqueViolation(err))
	})

	t.Run("check violation becomes validation", func(t *testing.T) {
		err := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "ck_progress_pages"}, "upsert_reading_progress")
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperr.CodeValidation, appErr.Code)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	})

	t.Run("other errors keep their cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := dberr.Wrap(cause, "list_sessions")

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperr.CodePersistenceFailure, appErr.Code)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, appErr.Cause.Error(), "list_sessions")
	})

	t.Run("classified errors are untouched", func(t *testing.T) {
		wrapped := fmt.Errorf("wrapped: %w", apperr.Forbidden("nope"))
		assert.Equal(t, wrapped, dberr.Wrap(wrapped, "x"))
	})
}
