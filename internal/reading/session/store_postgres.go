// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/postgres"
)

// openAttempts bounds the insert-or-select loop. A second attempt is only
// needed when the open row seen by the insert conflict was closed before the
// follow-up select ran.
const openAttempts = 3

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var sessionColumns = fmt.Sprintf("%s, %s, %s, %s, %s",
	schema.ReadingSession.ID, schema.ReadingSession.UserID, schema.ReadingSession.BookID,
	schema.ReadingSession.StartedAt, schema.ReadingSession.EndedAt,
)

func scanSession(row pgx.Row) (*Session, error) {
	session := &Session{}
	if err := row.Scan(&session.ID, &session.UserID, &session.BookID, &session.StartedAt, &session.EndedAt); err != nil {
		return nil, err
	}
	return session, nil
}

/*
OpenOrGet inserts an open session unless the partial unique index already
holds one for the pair, then reads back whichever row won.

The insert uses ON CONFLICT DO NOTHING against the open-session index, so two
concurrent callers can never both create a row and neither sees a unique
violation.
*/
func (repository *PostgresRepository) OpenOrGet(ctx context.Context, userID, bookID int64, startedAt time.Time) (*Session, bool, error) {
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) WHERE %s IS NULL DO NOTHING
		RETURNING %s
	`,
		schema.ReadingSession.Table, schema.ReadingSession.UserID, schema.ReadingSession.BookID, schema.ReadingSession.StartedAt,
		schema.ReadingSession.UserID, schema.ReadingSession.BookID, schema.ReadingSession.EndedAt,
		sessionColumns,
	)
	selectQuery := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NULL
	`,
		sessionColumns, schema.ReadingSession.Table,
		schema.ReadingSession.UserID, schema.ReadingSession.BookID, schema.ReadingSession.EndedAt,
	)

	for attempt := 0; attempt < openAttempts; attempt++ {
		var (
			session *Session
			created bool
		)

		err := postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
			inserted, err := scanSession(tx.QueryRow(ctx, insertQuery, userID, bookID, startedAt))
			if err == nil {
				session, created = inserted, true
				return nil
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}

			existing, err := scanSession(tx.QueryRow(ctx, selectQuery, userID, bookID))
			if err != nil {
				return err
			}
			session = existing
			return nil
		})

		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, false, dberr.Wrap(err, "open_reading_session")
		}
		return session, created, nil
	}

	return nil, false, dberr.Wrap(fmt.Errorf("open row vanished %d times", openAttempts), "open_reading_session")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		sessionColumns, schema.ReadingSession.Table, schema.ReadingSession.ID,
	)

	session, err := scanSession(repository.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_reading_session")
	}
	return session, nil
}

func (repository *PostgresRepository) Close(ctx context.Context, id int64, endedAt time.Time) (*Session, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.ReadingSession.Table, schema.ReadingSession.EndedAt,
		schema.ReadingSession.ID, schema.ReadingSession.EndedAt,
		sessionColumns,
	)

	session, err := scanSession(repository.db.QueryRow(ctx, query, id, endedAt))
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.Wrap(err, "close_reading_session")
	}

	// Nothing updated: either the row is gone or someone else closed it.
	if _, findErr := repository.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, ErrSessionClosed
}

func (repository *PostgresRepository) ListByUser(ctx context.Context, userID, bookID int64) ([]*Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		sessionColumns, schema.ReadingSession.Table, schema.ReadingSession.UserID,
	)
	args := []any{userID}

	if bookID > 0 {
		query += fmt.Sprintf(` AND %s = $2`, schema.ReadingSession.BookID)
		args = append(args, bookID)
	}
	query += fmt.Sprintf(` ORDER BY %s DESC, %s DESC`, schema.ReadingSession.StartedAt, schema.ReadingSession.ID)

	return repository.list(ctx, "list_reading_sessions", query, args...)
}

func (repository *PostgresRepository) ListClosed(ctx context.Context, userID, bookID int64) ([]*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NOT NULL
		ORDER BY %s ASC, %s ASC
	`,
		sessionColumns, schema.ReadingSession.Table,
		schema.ReadingSession.UserID, schema.ReadingSession.BookID, schema.ReadingSession.EndedAt,
		schema.ReadingSession.StartedAt, schema.ReadingSession.ID,
	)

	return repository.list(ctx, "list_closed_reading_sessions", query, userID, bookID)
}

func (repository *PostgresRepository) list(ctx context.Context, action, query string, args ...any) ([]*Session, error) {
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return sessions, nil
}
