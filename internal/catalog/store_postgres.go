// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed catalog store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Books

var bookSelect = fmt.Sprintf(`
	SELECT
		b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
		b.%s, b.%s, b.%s, a.%s, c.%s, e.%s, b.%s, b.%s,
		COUNT(*) OVER() AS total_count
	FROM %s b
	LEFT JOIN %s a ON a.%s = b.%s
	LEFT JOIN %s c ON c.%s = b.%s
	LEFT JOIN %s e ON e.%s = b.%s
`,
	schema.CatalogBook.ID, schema.CatalogBook.Title, schema.CatalogBook.Slug, schema.CatalogBook.Description,
	schema.CatalogBook.PublishedOn, schema.CatalogBook.Price, schema.CatalogBook.Discount, schema.CatalogBook.FileURL,
	schema.CatalogBook.CoverURL, schema.CatalogBook.IsActive,
	schema.CatalogBook.AuthorID, schema.CatalogBook.CategoryID, schema.CatalogBook.EditorialID,
	schema.CatalogAuthor.Name, schema.CatalogCategory.Name, schema.CatalogEditorial.Name,
	schema.CatalogBook.CreatedAt, schema.CatalogBook.UpdatedAt,
	schema.CatalogBook.Table,
	schema.CatalogAuthor.Table, schema.CatalogAuthor.ID, schema.CatalogBook.AuthorID,
	schema.CatalogCategory.Table, schema.CatalogCategory.ID, schema.CatalogBook.CategoryID,
	schema.CatalogEditorial.Table, schema.CatalogEditorial.ID, schema.CatalogBook.EditorialID,
)

func scanBook(row pgx.Row, total *int) (*Book, error) {
	b := &Book{}
	err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Description, &b.PublishedOn, &b.Price, &b.Discount, &b.FileURL,
		&b.CoverURL, &b.IsActive, &b.AuthorID, &b.CategoryID, &b.EditorialID,
		&b.AuthorName, &b.CategoryName, &b.EditorialName, &b.CreatedAt, &b.UpdatedAt,
		total,
	)
	return b, err
}

/*
ListBooks returns a filtered page of books and the total match count.

The total comes from a window function so a single round-trip serves both.
*/
func (repository *PostgresRepository) ListBooks(ctx context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	var (
		conditions []string
		args       []any
	)
	placeholder := func(value any) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if !filter.IncludeInactive {
		conditions = append(conditions, fmt.Sprintf("b.%s", schema.CatalogBook.IsActive))
	}
	if filter.Query != "" {
		term := placeholder("%" + filter.Query + "%")
		conditions = append(conditions, fmt.Sprintf("(b.%s ILIKE %s OR b.%s ILIKE %s)",
			schema.CatalogBook.Title, term, schema.CatalogBook.Description, term))
	}
	if filter.AuthorID > 0 {
		conditions = append(conditions, fmt.Sprintf("b.%s = %s", schema.CatalogBook.AuthorID, placeholder(filter.AuthorID)))
	}
	if filter.CategoryID > 0 {
		conditions = append(conditions, fmt.Sprintf("b.%s = %s", schema.CatalogBook.CategoryID, placeholder(filter.CategoryID)))
	}

	var query strings.Builder
	query.WriteString(bookSelect)
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(fmt.Sprintf(" ORDER BY b.%s ASC, b.%s ASC LIMIT %s OFFSET %s",
		schema.CatalogBook.Title, schema.CatalogBook.ID, placeholder(limit), placeholder(offset)))

	rows, err := repository.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	books := []*Book{}
	total := 0
	for rows.Next() {
		book, err := scanBook(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}

	return books, total, nil
}

func (repository *PostgresRepository) GetBook(ctx context.Context, id int64) (*Book, error) {
	query := bookSelect + fmt.Sprintf(" WHERE b.%s = $1", schema.CatalogBook.ID)

	var total int
	book, err := scanBook(repository.db.QueryRow(ctx, query, id), &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}
	return book, nil
}

func (repository *PostgresRepository) BookTitle(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CatalogBook.Title, schema.CatalogBook.Table, schema.CatalogBook.ID)

	var title string
	err := repository.db.QueryRow(ctx, query, id).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrBookNotFound
	}
	return title, dberr.Wrap(err, "get_book_title")
}

func (repository *PostgresRepository) CreateBook(ctx context.Context, b *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s, %s, %s
	`,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Slug, schema.CatalogBook.Description, schema.CatalogBook.PublishedOn,
		schema.CatalogBook.Price, schema.CatalogBook.Discount, schema.CatalogBook.FileURL, schema.CatalogBook.CoverURL,
		schema.CatalogBook.IsActive, schema.CatalogBook.AuthorID, schema.CatalogBook.CategoryID, schema.CatalogBook.EditorialID,
		schema.CatalogBook.ID, schema.CatalogBook.CreatedAt, schema.CatalogBook.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		b.Title, b.Slug, b.Description, b.PublishedOn, b.Price, b.Discount, b.FileURL, b.CoverURL,
		b.IsActive, b.AuthorID, b.CategoryID, b.EditorialID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return dberr.Wrap(err, "create_book")
}

func (repository *PostgresRepository) UpdateBook(ctx context.Context, b *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = $11, %s = $12, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s, %s
	`,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Description, schema.CatalogBook.PublishedOn,
		schema.CatalogBook.Price, schema.CatalogBook.Discount, schema.CatalogBook.FileURL, schema.CatalogBook.CoverURL,
		schema.CatalogBook.IsActive, schema.CatalogBook.AuthorID, schema.CatalogBook.CategoryID, schema.CatalogBook.EditorialID,
		schema.CatalogBook.UpdatedAt,
		schema.CatalogBook.ID,
		schema.CatalogBook.Slug, schema.CatalogBook.CreatedAt, schema.CatalogBook.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		b.ID, b.Title, b.Description, b.PublishedOn, b.Price, b.Discount, b.FileURL, b.CoverURL,
		b.IsActive, b.AuthorID, b.CategoryID, b.EditorialID,
	).Scan(&b.Slug, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBookNotFound
	}
	return dberr.Wrap(err, "update_book")
}

func (repository *PostgresRepository) DeleteBook(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogBook.Table, schema.CatalogBook.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if dberr.IsForeignKeyViolation(err) {
		conflict := *ErrBookInUse
		conflict.Cause = err
		return &conflict
	}
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if cmd.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// # Reference Entries

// entryTable maps a [Kind] onto its table and the column holding [Entry.Description].
type entryTable struct {
	table, id, name, text, createdAt, updatedAt string
}

func tableFor(kind Kind) (entryTable, error) {
	switch kind {
	case KindAuthor:
		t := schema.CatalogAuthor
		return entryTable{t.Table, t.ID, t.Name, t.Bio, t.CreatedAt, t.UpdatedAt}, nil
	case KindCategory:
		t := schema.CatalogCategory
		return entryTable{t.Table, t.ID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt}, nil
	case KindEditorial:
		t := schema.CatalogEditorial
		return entryTable{t.Table, t.ID, t.Name, t.Bio, t.CreatedAt, t.UpdatedAt}, nil
	}
	return entryTable{}, apperr.NotFound("Catalog collection")
}

func (t entryTable) columns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s", t.id, t.name, t.text, t.createdAt, t.updatedAt)
}

func scanEntry(row pgx.Row) (*Entry, error) {
	e := &Entry{}
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (repository *PostgresRepository) ListEntries(ctx context.Context, kind Kind) ([]*Entry, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, t.columns(), t.table, t.name)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_"+string(kind))
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_"+string(kind))
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_"+string(kind))
	}
	return entries, nil
}

func (repository *PostgresRepository) GetEntry(ctx context.Context, kind Kind, id int64) (*Entry, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, t.columns(), t.table, t.id)

	entry, err := scanEntry(repository.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_"+string(kind))
	}
	return entry, nil
}

func (repository *PostgresRepository) CreateEntry(ctx context.Context, kind Kind, entry *Entry) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		RETURNING %s, %s, %s
	`, t.table, t.name, t.text, t.id, t.createdAt, t.updatedAt)

	err = repository.db.QueryRow(ctx, query, entry.Name, entry.Description).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	return dberr.Wrap(err, "create_"+string(kind))
}

func (repository *PostgresRepository) UpdateEntry(ctx context.Context, kind Kind, entry *Entry) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`, t.table, t.name, t.text, t.updatedAt, t.id, t.createdAt, t.updatedAt)

	err = repository.db.QueryRow(ctx, query, entry.ID, entry.Name, entry.Description).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrEntryNotFound
	}
	return dberr.Wrap(err, "update_"+string(kind))
}

func (repository *PostgresRepository) DeleteEntry(ctx context.Context, kind Kind, id int64) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	cmd, err := repository.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.table, t.id), id)
	if err != nil {
		return dberr.Wrap(err, "delete_"+string(kind))
	}
	if cmd.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
