// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// Handler exposes the session ledger and reading analytics over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the ledger under /reading/sessions.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.openSession)
	router.Get("/", handler.listSessions)
	router.Get("/{id}", handler.getSession)
	router.Post("/{id}/close", handler.closeSession)
}

// RegisterBookRoutes mounts the analytics under /reading/books/{bookID}.
func (handler *Handler) RegisterBookRoutes(router chi.Router) {
	router.Get("/time", handler.totalTime)
	router.Get("/intermittency", handler.intermittency)
	router.Get("/stats", handler.stats)
}

// # Request/Response Payloads

type openSessionRequest struct {
	BookID int64 `json:"book_id"`
}

type sessionResponse struct {
	*Session
	Status Status `json:"status"`
}

func toResponse(session *Session) sessionResponse {
	return sessionResponse{Session: session, Status: session.Status()}
}

type totalTimeResponse struct {
	Minutes int64   `json:"minutes"`
	Hours   float64 `json:"hours"`
}

type intermittencyResponse struct {
	Days float64 `json:"days"`
}

// # Ledger Handlers

func (handler *Handler) openSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input openSessionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, created, err := handler.service.OpenSession(request.Context(), userID, input.BookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, toResponse(session))
		return
	}
	respond.OK(writer, toResponse(session))
}

func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := requestutil.QueryID(request, FieldBookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessions, err := handler.service.ListSessions(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		payload = append(payload, toResponse(session))
	}
	respond.OK(writer, payload)
}

func (handler *Handler) getSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.GetSession(request.Context(), sessionID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, toResponse(session))
}

func (handler *Handler) closeSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.CloseSession(request.Context(), sessionID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, toResponse(session))
}

// # Analytics Handlers

func (handler *Handler) totalTime(writer http.ResponseWriter, request *http.Request) {
	userID, bookID, err := userAndBook(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	minutes, err := handler.service.TotalMinutesRead(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, totalTimeResponse{Minutes: minutes, Hours: Hours(minutes)})
}

func (handler *Handler) intermittency(writer http.ResponseWriter, request *http.Request) {
	userID, bookID, err := userAndBook(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	days, err := handler.service.Intermittency(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, intermittencyResponse{Days: days})
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	userID, bookID, err := userAndBook(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.service.ReadingStats(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

func userAndBook(request *http.Request) (int64, int64, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return 0, 0, err
	}
	bookID, err := requestutil.ID(request, "bookID")
	if err != nil {
		return 0, 0, err
	}
	return userID, bookID, nil
}
