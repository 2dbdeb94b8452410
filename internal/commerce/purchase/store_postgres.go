// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

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

var purchaseColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.CommercePurchase.ID, schema.CommercePurchase.UserID, schema.CommercePurchase.BookID,
	schema.CommercePurchase.Reference, schema.CommercePurchase.Status, schema.CommercePurchase.PaymentID,
	schema.CommercePurchase.ApprovedAt, schema.CommercePurchase.CreatedAt, schema.CommercePurchase.UpdatedAt,
)

func scanPurchase(row pgx.Row) (*Purchase, error) {
	purchase := &Purchase{}
	err := row.Scan(
		&purchase.ID, &purchase.UserID, &purchase.BookID,
		&purchase.Reference, &purchase.Status, &purchase.PaymentID,
		&purchase.ApprovedAt, &purchase.CreatedAt, &purchase.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, userID, bookID int64, reference string) (*Purchase, bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO NOTHING
		RETURNING %s
	`,
		schema.CommercePurchase.Table, schema.CommercePurchase.UserID, schema.CommercePurchase.BookID, schema.CommercePurchase.Reference,
		schema.CommercePurchase.Reference,
		purchaseColumns,
	)

	purchase, err := scanPurchase(repository.db.QueryRow(ctx, query, userID, bookID, reference))
	if err == nil {
		return purchase, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, "create_purchase")
	}

	existing, err := repository.FindByReference(ctx, reference)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (repository *PostgresRepository) FindByReference(ctx context.Context, reference string) (*Purchase, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		purchaseColumns, schema.CommercePurchase.Table, schema.CommercePurchase.Reference,
	)

	purchase, err := scanPurchase(repository.db.QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_purchase")
	}
	return purchase, nil
}

/*
UpdateStatus applies a gateway status. The WHERE clause skips rows already in
that status so a replayed notification does not bump updatedat, and approvedat
is stamped only on the first transition to approved.
*/
func (repository *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status, paymentID string, at time.Time) (*Purchase, bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2,
			%s = $3,
			%s = CASE WHEN $2 = '%s' THEN COALESCE(%s, $4) ELSE %s END,
			%s = $4
		WHERE %s = $1 AND %s <> $2
			AND (%s <> '%s' OR $2 IN ('%s', '%s'))
		RETURNING %s
	`,
		schema.CommercePurchase.Table,
		schema.CommercePurchase.Status,
		schema.CommercePurchase.PaymentID,
		schema.CommercePurchase.ApprovedAt, StatusApproved, schema.CommercePurchase.ApprovedAt, schema.CommercePurchase.ApprovedAt,
		schema.CommercePurchase.UpdatedAt,
		schema.CommercePurchase.ID, schema.CommercePurchase.Status,
		schema.CommercePurchase.Status, StatusApproved, StatusRefunded, StatusCancelled,
		purchaseColumns,
	)

	purchase, err := scanPurchase(repository.db.QueryRow(ctx, query, id, string(status), paymentID, at))
	if err == nil {
		return purchase, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, "update_purchase_status")
	}

	// No row changed: the purchase is gone, already in this status, or approved.
	current, err := repository.findByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (repository *PostgresRepository) findByID(ctx context.Context, id int64) (*Purchase, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		purchaseColumns, schema.CommercePurchase.Table, schema.CommercePurchase.ID,
	)

	purchase, err := scanPurchase(repository.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_purchase")
	}
	return purchase, nil
}

func (repository *PostgresRepository) HasApproved(ctx context.Context, userID, bookID int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = '%s'
		)
	`,
		schema.CommercePurchase.Table,
		schema.CommercePurchase.UserID, schema.CommercePurchase.BookID, schema.CommercePurchase.Status, StatusApproved,
	)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, userID, bookID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_purchase_access")
	}
	return exists, nil
}

func (repository *PostgresRepository) ListLibrary(ctx context.Context, userID int64) ([]*LibraryItem, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (p.%s) p.%s, b.%s, COALESCE(b.%s, ''), COALESCE(p.%s, p.%s)
		FROM %s p
		JOIN %s b ON b.%s = p.%s
		WHERE p.%s = $1 AND p.%s = '%s'
		ORDER BY p.%s, p.%s ASC
	`,
		schema.CommercePurchase.BookID, schema.CommercePurchase.BookID, schema.CatalogBook.Title, schema.CatalogBook.CoverURL, schema.CommercePurchase.ApprovedAt, schema.CommercePurchase.CreatedAt,
		schema.CommercePurchase.Table,
		schema.CatalogBook.Table, schema.CatalogBook.ID, schema.CommercePurchase.BookID,
		schema.CommercePurchase.UserID, schema.CommercePurchase.Status, StatusApproved,
		schema.CommercePurchase.BookID, schema.CommercePurchase.ApprovedAt,
	)

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_library")
	}
	defer rows.Close()

	items := []*LibraryItem{}
	for rows.Next() {
		item := &LibraryItem{}
		if err := rows.Scan(&item.BookID, &item.Title, &item.CoverURL, &item.PurchasedAt); err != nil {
			return nil, dberr.Wrap(err, "list_library")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_library")
	}
	return items, nil
}

func (repository *PostgresRepository) SalesStats(ctx context.Context, dayStart, monthStart time.Time) (*SalesStats, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE p.%[1]s >= $1),
			COALESCE(SUM(b.%[2]s * (100 - b.%[3]s) / 100) FILTER (WHERE p.%[1]s >= $2), 0),
			COUNT(*)
		FROM %[4]s p
		JOIN %[5]s b ON b.%[6]s = p.%[7]s
		WHERE p.%[8]s = '%[9]s'
	`,
		schema.CommercePurchase.ApprovedAt,
		schema.CatalogBook.Price, schema.CatalogBook.Discount,
		schema.CommercePurchase.Table,
		schema.CatalogBook.Table, schema.CatalogBook.ID, schema.CommercePurchase.BookID,
		schema.CommercePurchase.Status, StatusApproved,
	)

	stats := &SalesStats{}
	if err := repository.db.QueryRow(ctx, query, dayStart, monthStart).Scan(&stats.SalesToday, &stats.RevenueMonth, &stats.Transactions); err != nil {
		return nil, dberr.Wrap(err, "sales_stats")
	}
	return stats, nil
}
