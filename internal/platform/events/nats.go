// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events publishes domain events to NATS JetStream.

Folio only produces events. Consumers such as the notification service live
outside this repository and subscribe to the subjects declared in
[constants]. When no NATS URL is configured the publisher runs in stub mode and
drops events after logging them at debug level.
*/
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/taibuivan/folio/internal/platform/constants"
)

// Event is the envelope written to every subject.
type Event struct {
	ID         string          `json:"event_id"`
	Type       string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent builds an envelope with a time-ordered ID around payload.
func NewEvent(eventType string, payload any, now time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("events: marshal %s: %w", eventType, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Event{}, fmt.Errorf("events: event id: %w", err)
	}

	return Event{ID: id.String(), Type: eventType, OccurredAt: now.UTC(), Data: data}, nil
}

// ErrNotConnected is returned by [Publisher.Ping] in stub mode.
var ErrNotConnected = errors.New("events: nats not configured")

// Publisher publishes events to NATS JetStream.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *slog.Logger
}

// NewPublisher connects to NATS and ensures the PURCHASES stream exists.
// An empty natsURL yields a stub publisher.
func NewPublisher(natsURL string, logger *slog.Logger) (*Publisher, error) {
	if natsURL == "" {
		logger.Warn("nats_publisher_stub_mode", slog.String("reason", "NATS_URL not set"))
		return &Publisher{logger: logger}, nil
	}

	conn, err := nats.Connect(natsURL,
		nats.Name(constants.AppName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: jetstream: %w", err)
	}

	if _, err := js.AddStream(&nats.StreamConfig{
		Name:     constants.StreamPurchases,
		Subjects: []string{"purchase.>"},
		Storage:  nats.FileStorage,
	}); err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		logger.Warn("nats_stream_create_failed", slog.String("stream", constants.StreamPurchases), slog.Any("error", err))
	}

	logger.Info("nats_publisher_connected", slog.String("stream", constants.StreamPurchases))
	return &Publisher{conn: conn, js: js, logger: logger}, nil
}

// Publish sends event to subject and waits for the JetStream ack.
func (publisher *Publisher) Publish(ctx context.Context, subject string, event Event) error {
	if publisher.js == nil {
		publisher.logger.DebugContext(ctx, "nats_stub_publish_skipped",
			slog.String("subject", subject),
			slog.String("event_id", event.ID),
		)
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}

	ack, err := publisher.js.Publish(subject, data, nats.Context(ctx), nats.MsgId(event.ID))
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", subject, err)
	}

	publisher.logger.DebugContext(ctx, "nats_event_published",
		slog.String("subject", subject),
		slog.String("event_id", event.ID),
		slog.Uint64("seq", ack.Sequence),
	)
	return nil
}

// Ping reports whether the underlying connection is usable.
func (publisher *Publisher) Ping(_ context.Context) error {
	if publisher.conn == nil {
		return ErrNotConnected
	}
	if !publisher.conn.IsConnected() {
		return fmt.Errorf("events: nats status %s", publisher.conn.Status())
	}
	return nil
}

// Enabled reports whether events actually leave the process.
func (publisher *Publisher) Enabled() bool {
	return publisher.js != nil
}

// Close drains pending messages and closes the connection.
func (publisher *Publisher) Close() {
	if publisher.conn == nil {
		return
	}
	if err := publisher.conn.Drain(); err != nil {
		publisher.logger.Warn("nats_drain_failed", slog.Any("error", err))
	}
}
