// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
RegisterRoutes mounts the catalog under /catalog.

  - Discovery (Public): GET on every collection.
  - Management (Restricted): POST, PATCH and DELETE require [sec.RoleAdmin].
*/
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/books", func(books chi.Router) {
		books.Get("/", handler.listBooks)
		books.Get("/{id}", handler.getBook)

		books.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))
			admin.Post("/", handler.createBook)
			admin.Patch("/{id}", handler.updateBook)
			admin.Delete("/{id}", handler.deleteBook)
		})
	})

	for _, kind := range []Kind{KindAuthor, KindCategory, KindEditorial} {
		router.Route("/"+string(kind), func(entries chi.Router) {
			entries.Get("/", handler.listEntries(kind))
			entries.Get("/{id}", handler.getEntry(kind))

			entries.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireRole(sec.RoleAdmin))
				admin.Post("/", handler.createEntry(kind))
				admin.Patch("/{id}", handler.updateEntry(kind))
				admin.Delete("/{id}", handler.deleteEntry(kind))
			})
		})
	}
}

// # Book Handlers

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	authorID, err := requestutil.QueryID(request, "author_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	categoryID, err := requestutil.QueryID(request, "category_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Query:      strings.TrimSpace(request.URL.Query().Get("q")),
		AuthorID:   authorID,
		CategoryID: categoryID,
	}

	// Administrators see unpublished books too.
	if claims := ctxutil.GetAuthUser(request.Context()); claims != nil && sec.ParseRole(claims.Role).AtLeast(sec.RoleAdmin) {
		filter.IncludeInactive = request.URL.Query().Get("include_inactive") == "true"
	}

	books, total, err := handler.service.ListBooks(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input Book
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateBook(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Book
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateBook(request.Context(), bookID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Entry Handlers

func (handler *Handler) listEntries(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entries, err := handler.service.ListEntries(request.Context(), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, entries)
	}
}

func (handler *Handler) getEntry(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entryID, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		entry, err := handler.service.GetEntry(request.Context(), kind, entryID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, entry)
	}
}

func (handler *Handler) createEntry(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var input Entry
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.CreateEntry(request.Context(), kind, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, input)
	}
}

func (handler *Handler) updateEntry(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entryID, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input Entry
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.UpdateEntry(request.Context(), kind, entryID, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, input)
	}
}

func (handler *Handler) deleteEntry(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entryID, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.DeleteEntry(request.Context(), kind, entryID); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}
