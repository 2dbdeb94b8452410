// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var progressColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s",
	schema.ReadingProgress.ID, schema.ReadingProgress.UserID, schema.ReadingProgress.BookID,
	schema.ReadingProgress.CurrentPage, schema.ReadingProgress.TotalPages, schema.ReadingProgress.UpdatedAt,
)

func scanProgress(row pgx.Row) (*Progress, error) {
	progress := &Progress{}
	err := row.Scan(&progress.ID, &progress.UserID, &progress.BookID,
		&progress.CurrentPage, &progress.TotalPages, &progress.UpdatedAt)
	return progress, err
}

// Upsert writes the row in a single statement. A nil page keeps the stored value.
func (repository *PostgresRepository) Upsert(ctx context.Context, progress *Progress) (*Progress, error) {
	table := schema.ReadingProgress
	query := fmt.Sprintf(`
		INSERT INTO %s AS existing (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = COALESCE(EXCLUDED.%s, existing.%s),
			%s = COALESCE(EXCLUDED.%s, existing.%s),
			%s = NOW()
		RETURNING %s
	`,
		table.Table, table.UserID, table.BookID, table.CurrentPage, table.TotalPages, table.UpdatedAt,
		table.UserID, table.BookID,
		table.CurrentPage, table.CurrentPage, table.CurrentPage,
		table.TotalPages, table.TotalPages, table.TotalPages,
		table.UpdatedAt,
		progressColumns,
	)

	saved, err := scanProgress(repository.db.QueryRow(ctx, query,
		progress.UserID, progress.BookID, progress.CurrentPage, progress.TotalPages))
	if err != nil {
		return nil, dberr.Wrap(err, "upsert_reading_progress")
	}
	return saved, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, userID, bookID int64) (*Progress, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		progressColumns, schema.ReadingProgress.Table, schema.ReadingProgress.UserID, schema.ReadingProgress.BookID,
	)

	progress, err := scanProgress(repository.db.QueryRow(ctx, query, userID, bookID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_reading_progress")
	}
	return progress, nil
}

func (repository *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]*BookProgress, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, b.%s, p.%s, p.%s, p.%s
		FROM %s p
		JOIN %s b ON b.%s = p.%s
		WHERE p.%s = $1
		ORDER BY p.%s DESC
	`,
		schema.ReadingProgress.BookID, schema.CatalogBook.Title, schema.ReadingProgress.CurrentPage,
		schema.ReadingProgress.TotalPages, schema.ReadingProgress.UpdatedAt,
		schema.ReadingProgress.Table,
		schema.CatalogBook.Table, schema.CatalogBook.ID, schema.ReadingProgress.BookID,
		schema.ReadingProgress.UserID,
		schema.ReadingProgress.UpdatedAt,
	)

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_user_progress")
	}
	defer rows.Close()

	report := []*BookProgress{}
	for rows.Next() {
		item := &BookProgress{}
		if err := rows.Scan(&item.BookID, &item.Title, &item.CurrentPage, &item.TotalPages, &item.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_user_progress")
		}
		report = append(report, item)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_user_progress")
	}
	return report, nil
}
