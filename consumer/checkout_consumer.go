// Package consumer tears guest carts down when checkout completes. Checkout
// is an external event; the checkout service announces it on Kafka and this
// consumer deletes the guest's durable cart record in response.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// GuestCartResetter deletes one guest's durable cart record.
type GuestCartResetter interface {
	Reset(ctx context.Context, guestID string) error
}

// CheckoutCompletedEvent mirrors the checkout-outbox payload.
type CheckoutCompletedEvent struct {
	CheckoutID string `json:"checkout_id"`
	GuestID    string `json:"guest_id"`
}

type CheckoutConsumer struct {
	resetter GuestCartResetter
	reader   *kafka.Reader
}

func NewCheckoutConsumer(resetter GuestCartResetter, brokers ...string) *CheckoutConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-outbox",
		GroupID:  "guest-cart-reset",
		MaxBytes: 10e6, // 10MB
	})
	return &CheckoutConsumer{resetter: resetter, reader: reader}
}

func (c *CheckoutConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *CheckoutConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		fmt.Printf("error closing kafka reader: %v\n", err)
	}
}

func (c *CheckoutConsumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Printf("error reading message: %v\n", err)
		return
	}
	c.handleEvent(ctx, m.Value)
}

// handleEvent validates and applies one checkout-outbox payload. Malformed
// messages are logged and skipped, never retried.
func (c *CheckoutConsumer) handleEvent(ctx context.Context, value []byte) {
	var event CheckoutCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		fmt.Printf("error parsing message: %v\n", err)
		return
	}

	if _, err := uuid.Parse(event.CheckoutID); err != nil {
		fmt.Printf("invalid checkout_id %q: %v\n", event.CheckoutID, err)
		return
	}
	if event.GuestID == "" {
		// Authenticated checkout; no guest cart to tear down.
		return
	}

	if err := c.resetter.Reset(ctx, event.GuestID); err != nil {
		fmt.Printf("failed to reset guest cart %s: %v\n", event.GuestID, err)
	}
}
