// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgrestest connects repository integration tests to a disposable
// PostgreSQL database named by FOLIO_TEST_DATABASE_URL.
package postgrestest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/migration"
	"github.com/taibuivan/folio/internal/platform/postgres"
)

// EnvDatabaseURL names the variable that enables integration tests.
const EnvDatabaseURL = "FOLIO_TEST_DATABASE_URL"

// Pool migrates the test database and returns a pool closed at test cleanup.
// The test is skipped when [EnvDatabaseURL] is unset.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set, skipping postgres integration test", EnvDatabaseURL)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, migrationsDir(t), false, logger))

	pool, err := postgres.NewPool(context.Background(), dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// InsertBook creates a catalog book with a unique slug and returns its ID.
func InsertBook(t *testing.T, pool *pgxpool.Pool, title string, price int) int64 {
	t.Helper()

	var id int64
	slug := fmt.Sprintf("test-%d", time.Now().UnixNano())
	err := pool.QueryRow(context.Background(),
		`INSERT INTO catalog.book (title, slug, price) VALUES ($1, $2, $3) RETURNING id`,
		title, slug, price,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// UniqueUserID returns an account ID unlikely to collide with earlier runs.
func UniqueUserID() int64 {
	return time.Now().UnixNano() % 1_000_000_000_000
}

func migrationsDir(t *testing.T) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
