// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

// memoryRepository mimics the unique slug constraint of catalog.book.
type memoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	books   map[int64]*catalog.Book
	entries map[catalog.Kind]map[int64]*catalog.Entry
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		books:   make(map[int64]*catalog.Book),
		entries: make(map[catalog.Kind]map[int64]*catalog.Entry),
	}
}

func (repository *memoryRepository) ListBooks(_ context.Context, filter catalog.Filter, limit, offset int) ([]*catalog.Book, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := []*catalog.Book{}
	for _, book := range repository.books {
		if !filter.IncludeInactive && !book.IsActive {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(book.Title), strings.ToLower(filter.Query)) {
			continue
		}
		copied := *book
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *memoryRepository) GetBook(_ context.Context, id int64) (*catalog.Book, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	book, ok := repository.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

func (repository *memoryRepository) CreateBook(_ context.Context, book *catalog.Book) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.books {
		if existing.Slug == book.Slug {
			return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "create_book")
		}
	}
	repository.nextID++
	book.ID = repository.nextID
	copied := *book
	repository.books[book.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateBook(_ context.Context, book *catalog.Book) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.books[book.ID]
	if !ok {
		return catalog.ErrBookNotFound
	}
	book.Slug = existing.Slug
	copied := *book
	repository.books[book.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteBook(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.books[id]; !ok {
		return catalog.ErrBookNotFound
	}
	delete(repository.books, id)
	return nil
}

func (repository *memoryRepository) BookTitle(ctx context.Context, id int64) (string, error) {
	book, err := repository.GetBook(ctx, id)
	if err != nil {
		return "", err
	}
	return book.Title, nil
}

func (repository *memoryRepository) ListEntries(_ context.Context, kind catalog.Kind) ([]*catalog.Entry, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entries := []*catalog.Entry{}
	for _, entry := range repository.entries[kind] {
		copied := *entry
		entries = append(entries, &copied)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (repository *memoryRepository) GetEntry(_ context.Context, kind catalog.Kind, id int64) (*catalog.Entry, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entry, ok := repository.entries[kind][id]
	if !ok {
		return nil, catalog.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (repository *memoryRepository) CreateEntry(_ context.Context, kind catalog.Kind, entry *catalog.Entry) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.entries[kind] == nil {
		repository.entries[kind] = make(map[int64]*catalog.Entry)
	}
	repository.nextID++
	entry.ID = repository.nextID
	copied := *entry
	repository.entries[kind][entry.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateEntry(_ context.Context, kind catalog.Kind, entry *catalog.Entry) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.entries[kind][entry.ID]; !ok {
		return catalog.ErrEntryNotFound
	}
	copied := *entry
	repository.entries[kind][entry.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteEntry(_ context.Context, kind catalog.Kind, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.entries[kind][id]; !ok {
		return catalog.ErrEntryNotFound
	}
	delete(repository.entries[kind], id)
	return nil
}

func newService() *catalog.Service {
	return catalog.NewService(newMemoryRepository(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

/*
TestService_CreateBook derives ASCII slugs and suffixes them on collision.
*/
func TestService_CreateBook(t *testing.T) {
	service := newService()
	ctx := context.Background()

	first := &catalog.Book{Title: "Cien años de soledad", Price: 1500, IsActive: true}
	require.NoError(t, service.CreateBook(ctx, first))
	assert.Equal(t, "cien-anos-de-soledad", first.Slug)

	second := &catalog.Book{Title: "Cien Años de Soledad", Price: 1500, IsActive: true}
	require.NoError(t, service.CreateBook(ctx, second))
	assert.Equal(t, "cien-anos-de-soledad-2", second.Slug)

	symbols := &catalog.Book{Title: "¿¡!?", Price: 100}
	require.NoError(t, service.CreateBook(ctx, symbols))
	assert.Equal(t, "book", symbols.Slug)

	title, err := service.BookTitle(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cien años de soledad", title)

	_, err = service.BookTitle(ctx, 999)
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

/*
TestService_CreateBook_Validation rejects empty titles and out-of-range prices.
*/
func TestService_CreateBook_Validation(t *testing.T) {
	service := newService()

	tests := []struct {
		name  string
		book  catalog.Book
		field string
	}{
		{"empty title", catalog.Book{Title: " "}, catalog.FieldTitle},
		{"long title", catalog.Book{Title: strings.Repeat("a", 151)}, catalog.FieldTitle},
		{"negative price", catalog.Book{Title: "Ficciones", Price: -1}, catalog.FieldPrice},
		{"discount above 100", catalog.Book{Title: "Ficciones", Discount: 120}, catalog.FieldDiscount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.CreateBook(context.Background(), &tt.book)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}

/*
TestBook_FinalPrice applies the percentage discount.
*/
func TestBook_FinalPrice(t *testing.T) {
	assert.Equal(t, 1000, (&catalog.Book{Price: 1000}).FinalPrice())
	assert.Equal(t, 750, (&catalog.Book{Price: 1000, Discount: 25}).FinalPrice())
	assert.Equal(t, 0, (&catalog.Book{Price: 999, Discount: 100}).FinalPrice())
}

/*
TestService_Entries manages one reference collection end to end.
*/
func TestService_Entries(t *testing.T) {
	service := newService()
	ctx := context.Background()

	author := &catalog.Entry{Name: "Julio Cortázar", Description: "Argentine novelist"}
	require.NoError(t, service.CreateEntry(ctx, catalog.KindAuthor, author))

	err := service.CreateEntry(ctx, catalog.KindCategory, &catalog.Entry{})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	require.NoError(t, service.UpdateEntry(ctx, catalog.KindAuthor, author.ID, &catalog.Entry{Name: "J. Cortázar"}))

	fetched, err := service.GetEntry(ctx, catalog.KindAuthor, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "J. Cortázar", fetched.Name)

	_, err = service.GetEntry(ctx, catalog.KindEditorial, author.ID)
	assert.ErrorIs(t, err, catalog.ErrEntryNotFound)

	require.NoError(t, service.DeleteEntry(ctx, catalog.KindAuthor, author.ID))
	listed, err := service.ListEntries(ctx, catalog.KindAuthor)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
