// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/constants"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/validate"
)

// maxWebhookBytes caps gateway notification bodies.
const maxWebhookBytes = 64 << 10

// Handler exposes purchases and the payment webhook over HTTP.
type Handler struct {
	service       *Service
	webhookSecret string
	logger        *slog.Logger
	now           func() time.Time
}

// NewHandler constructs a new [Handler]. webhookSecret verifies gateway signatures.
func NewHandler(service *Service, webhookSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		webhookSecret: webhookSecret,
		logger:        logger,
		now:           time.Now,
	}
}

// RegisterRoutes mounts the buyer endpoints under /purchases.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.createPurchase)
	router.Get("/library", handler.listLibrary)
}

// RegisterWebhookRoutes mounts the gateway callback under /webhooks.
func (handler *Handler) RegisterWebhookRoutes(router chi.Router) {
	router.Post("/payments", handler.paymentWebhook)
}

// RegisterAdminRoutes mounts the sales report under /admin.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/sales", handler.salesStats)
}

func (handler *Handler) createPurchase(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	purchase, created, err := handler.service.CreatePurchase(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, purchase)
		return
	}
	respond.OK(writer, purchase)
}

func (handler *Handler) listLibrary(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.service.ListLibrary(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

/*
paymentWebhook verifies and applies a gateway notification.

The signature covers the raw body, so it is read in full before decoding.
Ignored notifications still answer 200 so the gateway stops retrying.
*/
func (handler *Handler) paymentWebhook(writer http.ResponseWriter, request *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	signature := request.Header.Get(constants.HeaderPaymentSignature)
	if err := VerifySignature(payload, signature, handler.webhookSecret, handler.now()); err != nil {
		handler.logger.WarnContext(request.Context(), "payment_webhook_rejected",
			slog.String("reason", err.Error()),
		)
		respond.Error(writer, request, ErrInvalidSignature)
		return
	}

	var notification Notification
	if err := json.Unmarshal(payload, &notification); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.service.ApplyPaymentNotification(request.Context(), notification)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) salesStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.SalesStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}
