// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/folio/internal/reading/session"
)

// memoryRepository is an in-memory [session.Repository] guarded by a mutex.
type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]*session.Session
	failWith error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{sessions: make(map[int64]*session.Session)}
}

func (repository *memoryRepository) OpenOrGet(_ context.Context, userID, bookID int64, startedAt time.Time) (*session.Session, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, false, repository.failWith
	}

	for _, existing := range repository.sessions {
		if existing.UserID == userID && existing.BookID == bookID && existing.IsOpen() {
			return clone(existing), false, nil
		}
	}

	repository.nextID++
	created := &session.Session{ID: repository.nextID, UserID: userID, BookID: bookID, StartedAt: startedAt}
	repository.sessions[created.ID] = created
	return clone(created), true, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id int64) (*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, repository.failWith
	}

	found, ok := repository.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return clone(found), nil
}

func (repository *memoryRepository) Close(_ context.Context, id int64, endedAt time.Time) (*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	found, ok := repository.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	if !found.IsOpen() {
		return nil, session.ErrSessionClosed
	}
	found.EndedAt = &endedAt
	return clone(found), nil
}

func (repository *memoryRepository) ListByUser(_ context.Context, userID, bookID int64) ([]*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	result := []*session.Session{}
	for _, candidate := range repository.sessions {
		if candidate.UserID == userID && (bookID == 0 || candidate.BookID == bookID) {
			result = append(result, clone(candidate))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.After(result[j].StartedAt) })
	return result, nil
}

func (repository *memoryRepository) ListClosed(_ context.Context, userID, bookID int64) ([]*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, repository.failWith
	}

	result := []*session.Session{}
	for _, candidate := range repository.sessions {
		if candidate.UserID == userID && candidate.BookID == bookID && !candidate.IsOpen() {
			result = append(result, clone(candidate))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.Before(result[j].StartedAt) })
	return result, nil
}

// seedClosed inserts a closed session directly.
func (repository *memoryRepository) seedClosed(userID, bookID int64, startedAt time.Time, duration time.Duration) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.nextID++
	endedAt := startedAt.Add(duration)
	repository.sessions[repository.nextID] = &session.Session{
		ID: repository.nextID, UserID: userID, BookID: bookID, StartedAt: startedAt, EndedAt: &endedAt,
	}
}

func (repository *memoryRepository) openCount(userID, bookID int64) int {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	count := 0
	for _, candidate := range repository.sessions {
		if candidate.UserID == userID && candidate.BookID == bookID && candidate.IsOpen() {
			count++
		}
	}
	return count
}

func clone(source *session.Session) *session.Session {
	copied := *source
	if source.EndedAt != nil {
		endedAt := *source.EndedAt
		copied.EndedAt = &endedAt
	}
	return &copied
}

type stubBooks map[int64]string

func (books stubBooks) BookTitle(_ context.Context, bookID int64) (string, error) {
	title, ok := books[bookID]
	if !ok {
		return "", errors.New("book not found")
	}
	return title, nil
}

type stubEntitlements struct {
	allowed map[int64]bool
	err     error
}

func (entitlements stubEntitlements) HasAccess(_ context.Context, _, bookID int64) (bool, error) {
	return entitlements.allowed[bookID], entitlements.err
}

// fixedClock returns a controllable time source.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fixedClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fixedClock) Advance(duration time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(duration)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
