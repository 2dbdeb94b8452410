// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package annotation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var annotationColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.ReadingAnnotation.ID, schema.ReadingAnnotation.UserID, schema.ReadingAnnotation.BookID,
	schema.ReadingAnnotation.Page, schema.ReadingAnnotation.PosX, schema.ReadingAnnotation.PosY,
	schema.ReadingAnnotation.Body, schema.ReadingAnnotation.Width, schema.ReadingAnnotation.Height,
	schema.ReadingAnnotation.FontSize, schema.ReadingAnnotation.CreatedAt, schema.ReadingAnnotation.UpdatedAt,
)

func scanAnnotation(row pgx.Row) (*Annotation, error) {
	a := &Annotation{}
	err := row.Scan(&a.ID, &a.UserID, &a.BookID, &a.Page, &a.PosX, &a.PosY,
		&a.Body, &a.Width, &a.Height, &a.FontSize, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (repository *PostgresRepository) ListByBook(ctx context.Context, userID, bookID int64) ([]*Annotation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC, %s ASC
	`,
		annotationColumns, schema.ReadingAnnotation.Table,
		schema.ReadingAnnotation.UserID, schema.ReadingAnnotation.BookID,
		schema.ReadingAnnotation.Page, schema.ReadingAnnotation.ID,
	)

	rows, err := repository.db.Query(ctx, query, userID, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_annotations")
	}
	defer rows.Close()

	annotations := []*Annotation{}
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_annotation")
		}
		annotations = append(annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_annotations")
	}
	return annotations, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Annotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		annotationColumns, schema.ReadingAnnotation.Table, schema.ReadingAnnotation.ID,
	)

	a, err := scanAnnotation(repository.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAnnotationNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_annotation")
	}
	return a, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, a *Annotation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s, %s
	`,
		schema.ReadingAnnotation.Table,
		schema.ReadingAnnotation.UserID, schema.ReadingAnnotation.BookID, schema.ReadingAnnotation.Page,
		schema.ReadingAnnotation.PosX, schema.ReadingAnnotation.PosY, schema.ReadingAnnotation.Body,
		schema.ReadingAnnotation.Width, schema.ReadingAnnotation.Height, schema.ReadingAnnotation.FontSize,
		schema.ReadingAnnotation.ID, schema.ReadingAnnotation.CreatedAt, schema.ReadingAnnotation.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		a.UserID, a.BookID, a.Page, a.PosX, a.PosY, a.Body, a.Width, a.Height, a.FontSize,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return dberr.Wrap(err, "create_annotation")
}

func (repository *PostgresRepository) Update(ctx context.Context, a *Annotation) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.ReadingAnnotation.Table,
		schema.ReadingAnnotation.Page, schema.ReadingAnnotation.PosX, schema.ReadingAnnotation.PosY,
		schema.ReadingAnnotation.Body, schema.ReadingAnnotation.Width, schema.ReadingAnnotation.Height,
		schema.ReadingAnnotation.FontSize, schema.ReadingAnnotation.UpdatedAt,
		schema.ReadingAnnotation.ID,
		schema.ReadingAnnotation.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		a.ID, a.Page, a.PosX, a.PosY, a.Body, a.Width, a.Height, a.FontSize,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAnnotationNotFound
	}
	return dberr.Wrap(err, "update_annotation")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ReadingAnnotation.Table, schema.ReadingAnnotation.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_annotation")
	}
	if cmd.RowsAffected() == 0 {
		return ErrAnnotationNotFound
	}
	return nil
}
