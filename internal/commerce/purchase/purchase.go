// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package purchase records book purchases and reconciles them with the payment
gateway.

The checkout itself happens at the gateway. Folio stores a pending purchase
keyed by the checkout reference, then moves it through the gateway statuses
as signed notifications arrive on the webhook. An approved purchase grants
access to the book's reading features and is announced on NATS so the
notification service can email the receipt.
*/
package purchase

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// # Domain Entities

// Status mirrors the payment gateway status of a purchase.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// CanMoveTo reports whether a notification may move a purchase from s to next.
// Approval is only left through a refund or a cancellation.
func (s Status) CanMoveTo(next Status) bool {
	if s != StatusApproved || next == s {
		return true
	}
	return next == StatusRefunded || next == StatusCancelled
}

// Purchase is a user's order of a single book.
type Purchase struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	Reference  string     `json:"reference"`
	Status     Status     `json:"status"`
	PaymentID  *string    `json:"payment_id,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LibraryItem is a book the user owns.
type LibraryItem struct {
	BookID      int64     `json:"book_id"`
	Title       string    `json:"title"`
	CoverURL    string    `json:"cover_url"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// SalesStats summarises approved purchases for the admin dashboard.
// Amounts use the book price after discount at query time.
type SalesStats struct {
	SalesToday   int   `json:"sales_today"`
	RevenueMonth int64 `json:"revenue_month"`
	Transactions int   `json:"transactions"`
}

// CreateInput is the payload of CreatePurchase.
type CreateInput struct {
	BookID    int64  `json:"book_id"`
	Reference string `json:"reference"`
}

// # Gateway Notification

// Notification is the body the payment gateway posts to the webhook.
// Older deliveries carry the kind in "topic", newer ones in "type".
type Notification struct {
	ID    GatewayID        `json:"id"`
	Type  string           `json:"type"`
	Topic string           `json:"topic"`
	Data  NotificationData `json:"data"`
}

// NotificationData carries the payment state.
type NotificationData struct {
	ID                GatewayID `json:"id"`
	Status            Status    `json:"status"`
	ExternalReference string    `json:"external_reference"`
}

// Kind returns the notification topic regardless of the field it came in.
func (notification Notification) Kind() string {
	if notification.Type != "" {
		return notification.Type
	}
	return notification.Topic
}

// GatewayID accepts identifiers sent either as JSON strings or numbers.
type GatewayID string

func (id *GatewayID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*id = GatewayID(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*id = GatewayID(number.String())
	return nil
}

// WebhookResult is the acknowledgement returned to the gateway.
type WebhookResult struct {
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	PurchaseID int64  `json:"purchase_id,omitempty"`
	BookID     int64  `json:"book_id,omitempty"`
	NewStatus  Status `json:"new_status,omitempty"`
}

const (
	reasonPurchaseNotFound = "purchase not found"
	reasonStaleStatus      = "stale status"
)

func ignored(reason string) *WebhookResult {
	return &WebhookResult{Status: "ignored", Reason: reason}
}

// ApprovedEvent is published on [constants.SubjectPurchaseApproved].
type ApprovedEvent struct {
	PurchaseID int64     `json:"purchase_id"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	Reference  string    `json:"reference"`
	PaymentID  string    `json:"payment_id"`
	ApprovedAt time.Time `json:"approved_at"`
}

// # Domain Errors

var (
	ErrPurchaseNotFound = apperr.NotFound("Purchase")
	ErrReferenceTaken   = apperr.Conflict("Purchase reference belongs to another order")
	ErrInvalidSignature = apperr.Unauthorized("Invalid payment notification signature")
)

// Field names used in validation errors.
const (
	FieldBookID    = "book_id"
	FieldReference = "reference"
)
